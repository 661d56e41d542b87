package config

import (
	"log/slog"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/dokumentor/internal/logfields"
)

// envFiles are loaded in order. Variables already present in the
// environment, including those set by an earlier file, are kept.
var envFiles = []string{".env", ".env.local"}

// loadEnvFiles makes .env values available to ${VAR} expansion in the
// configuration file. Missing files are skipped.
func loadEnvFiles() {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err == nil {
			slog.Debug("Loaded environment file", logfields.Path(file))
		}
	}
}
