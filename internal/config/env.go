package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var envOnce sync.Once

// LoadEnv loads a .env file from the working directory or its parent, once
// per process, without overriding variables already set. It returns the
// file loaded, or "" when none was found or it could not be parsed.
func LoadEnv() string {
	var loaded string
	envOnce.Do(func() {
		loaded = loadEnvFile(".")
	})
	return loaded
}

func loadEnvFile(dir string) string {
	envFile := filepath.Join(dir, ".env")
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join(dir, "..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return ""
		}
	}

	if err := godotenv.Load(envFile); err != nil {
		return ""
	}
	return envFile
}
