package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Gemini   GeminiConfig
	Server   ServerConfig
	Sweeper  SweeperConfig
	Scoring  ScoringConfig
	LogJSON  bool
	LogDebug bool
}

type DatabaseConfig struct {
	// URL is the Postgres connection string. When empty the service
	// falls back to the local SQLite file.
	URL        string
	SQLitePath string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type ServerConfig struct {
	Port string
}

type SweeperConfig struct {
	Cron      string
	Retention time.Duration
}

type ScoringConfig struct {
	WeightsPath string
	ScoreTTL    time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Database: DatabaseConfig{
			URL:        os.Getenv("DATABASE_URL"),
			SQLitePath: getEnv("SQLITE_PATH", "weleev.db"),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Sweeper: SweeperConfig{
			Cron:      getEnv("SWEEP_CRON", "0 4 * * *"),
			Retention: getEnvDuration("SWEEP_RETENTION", 7*24*time.Hour),
		},
		Scoring: ScoringConfig{
			WeightsPath: getEnv("SCORING_WEIGHTS_PATH", "config/scoring.yaml"),
			ScoreTTL:    getEnvDuration("SCORE_TTL", 24*time.Hour),
		},
		LogJSON:  os.Getenv("LOG_JSON") == "true",
		LogDebug: os.Getenv("LOG_DEBUG") == "true",
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
