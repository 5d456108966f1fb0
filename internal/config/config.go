package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

const AppName = "gradecalc"

type Config struct {
	DataDir         string
	ExportDir       string
	ProfileEndpoint string
	QueryEndpoint   string
	HTTPTimeout     time.Duration
	LogLevel        string
}

// Load reads envFile (if it exists) into the environment and builds the
// config from GRADECALC_* variables. Variables already set win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	dataDir := getEnv("GRADECALC_DATA_DIR", "")
	if dataDir == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return Config{}, fmt.Errorf("failed to get user cache dir: %w", err)
		}
		dataDir = filepath.Join(cacheDir, AppName)
	}

	timeout, err := time.ParseDuration(getEnv("GRADECALC_HTTP_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid GRADECALC_HTTP_TIMEOUT: %w", err)
	}

	return Config{
		DataDir:         dataDir,
		ExportDir:       getEnv("GRADECALC_EXPORT_DIR", "."),
		ProfileEndpoint: getEnv("GRADECALC_PROFILE_ENDPOINT", ""),
		QueryEndpoint:   getEnv("GRADECALC_QUERY_ENDPOINT", ""),
		HTTPTimeout:     timeout,
		LogLevel:        getEnv("GRADECALC_LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
