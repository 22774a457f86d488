// Package logging configures the global zerolog logger: a console writer on
// stderr plus a rotating file under the data directory.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation policy for pfpulse.log. The file sink exists so MCP stdio runs
// (where stderr belongs to the client) still leave a trail.
const (
	maxSizeMB  = 16
	maxBackups = 32
	maxAgeDays = 365
)

// Init sets up the global logger. Called once from the CLI before config
// load, so it resolves its own .env for PFPULSE_LOG_DIR.
func Init(verbose bool) {
	exePath, exeErr := os.Executable()
	if exeErr == nil {
		_ = godotenv.Load(filepath.Join(filepath.Dir(exePath), ".env"))
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	isTerminal := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal,
	}

	logDir := os.Getenv("PFPULSE_LOG_DIR")
	if logDir == "" {
		if dataPath := os.Getenv("DATA_PATH"); dataPath != "" {
			logDir = filepath.Join(dataPath, "logs")
		} else if exeErr == nil {
			logDir = filepath.Join(filepath.Dir(exePath), "logs")
		} else {
			logDir = "logs"
		}
	}

	sinks := []io.Writer{console}
	if writable(logDir) {
		sinks = append(sinks, &lumberjack.Logger{
			Filename:   filepath.Join(logDir, "pfpulse.log"),
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		})
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(sinks...)).
		With().
		Timestamp().
		Logger()

	if len(sinks) == 1 {
		log.Warn().Str("dir", logDir).Msg("Log directory not writable, console only")
	}
}

// writable probes the directory with a throwaway file. A failed probe means
// console-only logging, not a fatal error.
func writable(dir string) bool {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false
	}
	probe := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return false
	}
	_ = os.Remove(probe)
	return true
}
