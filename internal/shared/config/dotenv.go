package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"

	"cvai-core/internal/shared/telemetry"
)

// loadEnvFiles loads KEY=VALUE pairs from the given files if they exist.
// Missing files are skipped and variables already in the environment win.
func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			telemetry.Warn("config.dotenv_failed", map[string]any{"path": path, "error": err})
		}
	}
}

// LoadFile loads a specific env file, failing if it cannot be read.
func LoadFile(path string) error {
	return godotenv.Load(path)
}
