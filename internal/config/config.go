package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"fundview/internal/simclient"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Simulation           simclient.Config
	DataPath             string
	CacheDir             string
	HTTPAddr             string
	EnableMermaidCharts  bool
	RepairParallelArrays bool
}

// Load reads .env files and the environment. The .env next to the binary wins
// over the one in the working directory because godotenv never overrides.
func Load() (*AppConfig, error) {
	exeDir := ""
	if exePath, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables")
	}

	dataPath := getEnv("DATA_PATH", "")
	if dataPath == "" {
		dataPath = "."
		if exeDir != "" {
			dataPath = exeDir
		}
	}
	return fromEnv(dataPath), nil
}

func fromEnv(dataPath string) *AppConfig {
	cacheDir := filepath.Join(dataPath, "cache")
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", cacheDir).Msg("Failed to create cache directory")
	}

	delayMs := getEnvInt("SIMULATION_REQUEST_DELAY_MS", 250)

	return &AppConfig{
		Simulation: simclient.Config{
			BaseURL:      getEnv("SIMULATION_API_URL", ""),
			Token:        getEnv("SIMULATION_API_TOKEN", ""),
			RequestDelay: time.Duration(delayMs) * time.Millisecond,
		},
		DataPath:             dataPath,
		CacheDir:             cacheDir,
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		EnableMermaidCharts:  getEnvBool("ENABLE_MERMAID_CHARTS", false),
		RepairParallelArrays: getEnvBool("REPAIR_PARALLEL_ARRAYS", false),
	}
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

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil && n >= 0 {
			return n
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring invalid integer setting")
	}
	return fallback
}
