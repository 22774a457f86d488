package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	// DataPath is the root directory for all local state.
	DataPath  string
	LogDir    string
	CacheDir  string
	ExportDir string

	// WorkbookPath is the source spreadsheet with project financials.
	WorkbookPath string
	// HeaderRow is the 1-based workbook row holding column headers.
	HeaderRow int

	// RosterDir holds the engineer/SA/exclusion/disqualified list files.
	RosterDir string

	// ThresholdsPath is the JSON analysis settings file.
	ThresholdsPath string

	// ListenAddr is the dashboard HTTP bind address.
	ListenAddr string

	EnableMermaidCharts bool
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for installed binaries)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve Data Paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	cacheDir := filepath.Join(dataPath, "cache")
	exportDir := getEnv("EXPORT_DIR", filepath.Join(dataPath, "exports"))

	// Ensure directories exist
	for _, dir := range []string{logDir, cacheDir, exportDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Warn().Err(err).Str("path", dir).Msg("Failed to create directory")
		}
	}

	headerRow, _ := strconv.Atoi(getEnv("WORKBOOK_HEADER_ROW", "13"))
	if headerRow < 1 {
		headerRow = 13
	}

	cfg := &AppConfig{
		DataPath:            dataPath,
		LogDir:              logDir,
		CacheDir:            cacheDir,
		ExportDir:           exportDir,
		WorkbookPath:        getEnv("WORKBOOK_PATH", filepath.Join(dataPath, "project_financials.xlsx")),
		HeaderRow:           headerRow,
		RosterDir:           getEnv("ROSTER_DIR", dataPath),
		ThresholdsPath:      getEnv("THRESHOLDS_PATH", filepath.Join(dataPath, "config.json")),
		ListenAddr:          getEnv("LISTEN_ADDR", "127.0.0.1:8710"),
		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", false),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
