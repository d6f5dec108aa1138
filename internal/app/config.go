package app

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"
)

const defaultDSN = "hrms.db"

type GSheetConfig struct {
	SheetID         string `toml:"sheet_id"`
	SheetName       string `toml:"sheet_name"`
	Range           string `toml:"range"`
	CredentialsPath string `toml:"credentials_path"`
	Schedule        string `toml:"schedule"`
}

type Config struct {
	Server struct {
		Port            string   `toml:"port"`
		ShutdownTimeout Duration `toml:"shutdown_timeout"`
	} `toml:"server"`

	Database struct {
		DSN string `toml:"dsn"`
	} `toml:"database"`

	Cache struct {
		RedisURL  string   `toml:"redis_url"`
		TTL       Duration `toml:"ttl"`
		KeyPrefix string   `toml:"key_prefix"`
	} `toml:"cache"`

	Bot struct {
		Token    string  `toml:"token"`
		AdminIDs []int64 `toml:"admin_ids"`
	} `toml:"bot"`

	GSheet []GSheetConfig `toml:"gsheet"`
}

// Duration reads "30s"-style strings from TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	return ParseConfig(path, data)
}

func ParseConfig(path string, data []byte) (*Config, error) {
	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	applyEnvOverrides(&config)
	applyDefaults(&config)

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :5000")
	}

	logger.Debug.Printf("Loaded config: database=%s cache_enabled=%t gsheets=%d",
		config.Database.DSN,
		config.Cache.RedisURL != "",
		len(config.GSheet),
	)

	return &config, nil
}

func applyEnvOverrides(config *Config) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Debug.Printf("Skipping .env: %v", err)
	}

	if v := os.Getenv("HRDESK_DATABASE_DSN"); v != "" {
		config.Database.DSN = v
	}
	if v := os.Getenv("HRDESK_REDIS_URL"); v != "" {
		config.Cache.RedisURL = v
	}
	if v := os.Getenv("HRDESK_BOT_TOKEN"); v != "" {
		config.Bot.Token = v
	}
}

func applyDefaults(config *Config) {
	if config.Database.DSN == "" {
		config.Database.DSN = defaultDSN
	}
	if config.Server.ShutdownTimeout.Duration == 0 {
		config.Server.ShutdownTimeout.Duration = 10 * time.Second
	}
	if config.Cache.TTL.Duration == 0 {
		config.Cache.TTL.Duration = 5 * time.Minute
	}
	if config.Cache.KeyPrefix == "" {
		config.Cache.KeyPrefix = "hrdesk"
	}
}
