package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// envFiles are tried in order; the first one present is loaded. Existing
// process environment variables are never overwritten.
var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads environment variables before config parsing so that
// ${VAR} expansion in the YAML sees them. Missing files are normal.
func loadEnvFiles() {
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("Failed to load env file", "path", path, "error", err)
			continue
		}
		slog.Debug("Loaded environment variables", "path", path)
		return
	}
}
