package config

import (
	"os"
	"path/filepath"
	"sync"

	"fjacquet/budget-csv/internal/logging"

	"github.com/joho/godotenv"
)

var envOnce sync.Once

// LoadEnv loads environment variables from a .env file in the working
// directory or its parent, once per process. Variables already set in the
// environment are not overridden. It returns the file that was loaded, if any.
func LoadEnv() string {
	var loaded string
	envOnce.Do(func() {
		loaded = loadEnvFile(".env", filepath.Join("..", ".env"))
	})
	return loaded
}

func loadEnvFile(candidates ...string) string {
	for _, envFile := range candidates {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			return ""
		}
		return envFile
	}
	return ""
}

// ConfigureLoggingFromConfig builds the application logger from the Log
// section of the configuration.
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	if config == nil {
		return logging.NewLogrusAdapter("info", "text")
	}
	return logging.NewLogrusAdapter(config.Log.Level, config.Log.Format)
}
