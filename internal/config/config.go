package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, read from the environment.
type Config struct {
	// BotToken authenticates the bot to the Telegram API.
	BotToken string `env:"BOT_TOKEN,required"`
	// GeminiAPIKey authenticates to the Gemini inference endpoint. Without a
	// valid key every analysis fails with the generic failure message.
	GeminiAPIKey string `env:"GEMINI_API_KEY,required"`
	// DBPath is the SQLite database file holding history snapshots and the
	// analysis cache.
	DBPath string `env:"BULLDOG_DB_PATH" envDefault:"bulldog.db"`
	// CameraSnapshotURL is an optional still-frame endpoint of a webcam or IP
	// camera. Live capture via /camera is disabled when unset.
	CameraSnapshotURL string `env:"CAMERA_SNAPSHOT_URL"`
	// CameraProbeInterval controls how often the background monitor checks
	// camera reachability.
	CameraProbeInterval time.Duration `env:"CAMERA_PROBE_INTERVAL" envDefault:"1m"`
	// HistoryPassphrase, when set, encrypts persisted history snapshots at
	// rest with a key derived from it.
	HistoryPassphrase string `env:"HISTORY_ENCRYPTION_KEY"`
	Debug             bool   `env:"DEBUG"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present; missing files are not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}
	return &cfg, nil
}
