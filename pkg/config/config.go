package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	Recommend RecommendConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type RecommendConfig struct {
	// DataDir is the fallback root for masterdata/musicmeta when a request
	// does not carry absolute paths.
	DataDir string
	// MaxTimeoutMs caps the per-request search deadline.
	MaxTimeoutMs int
	// SnapshotCacheSize bounds the player-snapshot LRU.
	SnapshotCacheSize int
	// MusicmetaRefreshSec forces a music-meta reload after this interval even
	// when the upstream timestamp did not advance.
	MusicmetaRefreshSec int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Sekai Deck Recommend API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Recommend: RecommendConfig{
			DataDir:             getEnv("DATA_DIR", "./data"),
			MaxTimeoutMs:        getEnvInt("RECOMMEND_MAX_TIMEOUT_MS", 30000),
			SnapshotCacheSize:   getEnvInt("SNAPSHOT_CACHE_SIZE", 32),
			MusicmetaRefreshSec: getEnvInt("MUSICMETA_REFRESH_SEC", 3600),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}

	return defaultVal
}
