package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"launcher-api/internal/constants"
	apperrors "launcher-api/internal/errors"
)

// Load loads the configuration from an optional .env file and environment variables
func Load() (*Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return FromViper(v)
}

// setDefaults sets default values for every known key
func setDefaults(v *viper.Viper) {
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("PORT", constants.DefaultPort)
	v.SetDefault("STORE_BACKEND", BackendFile)
	v.SetDefault("DATA_DIR", constants.DefaultDataDir)
	v.SetDefault("MONGO_DATABASE", "launcher")
	v.SetDefault("RELOAD_PER_REQUEST", false)
	v.SetDefault("ADMIN_USERNAME", constants.DefaultAdminUsername)
	v.SetDefault("TOKEN_MODE", "plain")
	v.SetDefault("TOKEN_TTL", 0)
	v.SetDefault("AUTH_RATE_LIMIT", constants.DefaultAuthRateLimit)
	v.SetDefault("AUTH_RATE_WINDOW", constants.DefaultAuthRateWindow)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("TG_ADMIN_BOT", false)
}

// FromViper builds and validates a Config from an already populated viper instance
func FromViper(v *viper.Viper) (*Config, error) {
	// Define environment variables without defaults
	for _, key := range []string{
		"STATIC_DIR", "FILE_PREFIX", "MONGO_URI", "POSTGRES_URL",
		"TOKEN_SECRET", "TG_TOKEN", "TG_ADMIN_IDS",
	} {
		_ = v.BindEnv(key)
	}

	cfg := &Config{
		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: strings.ToLower(v.GetString("LOG_FORMAT")),
		Server: ServerConfig{
			Port:        strings.TrimPrefix(strings.TrimSpace(v.GetString("PORT")), ":"),
			StaticDir:   strings.TrimSpace(v.GetString("STATIC_DIR")),
			CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
		},
		Store: StoreConfig{
			Backend:          strings.ToLower(strings.TrimSpace(v.GetString("STORE_BACKEND"))),
			DataDir:          strings.TrimSpace(v.GetString("DATA_DIR")),
			FilePrefix:       strings.TrimSpace(v.GetString("FILE_PREFIX")),
			MongoURI:         strings.TrimSpace(v.GetString("MONGO_URI")),
			MongoDatabase:    strings.TrimSpace(v.GetString("MONGO_DATABASE")),
			PostgresURL:      strings.TrimSpace(v.GetString("POSTGRES_URL")),
			ReloadPerRequest: v.GetBool("RELOAD_PER_REQUEST"),
		},
		Auth: AuthConfig{
			AdminUsername: strings.TrimSpace(v.GetString("ADMIN_USERNAME")),
			TokenMode:     strings.ToLower(strings.TrimSpace(v.GetString("TOKEN_MODE"))),
			TokenSecret:   v.GetString("TOKEN_SECRET"),
			TokenTTL:      v.GetInt("TOKEN_TTL"),
			RateLimit:     v.GetInt("AUTH_RATE_LIMIT"),
			RateWindow:    v.GetDuration("AUTH_RATE_WINDOW"),
		},
		Telegram: TelegramConfig{
			Token:    strings.TrimSpace(v.GetString("TG_TOKEN")),
			AdminBot: v.GetBool("TG_ADMIN_BOT"),
		},
	}

	// Parse admin chat IDs
	adminIDsStr := v.GetString("TG_ADMIN_IDS")
	if adminIDsStr != "" {
		adminIDsSlice := strings.Split(adminIDsStr, ",")
		adminIDs := make([]int64, 0, len(adminIDsSlice))
		for _, idStr := range adminIDsSlice {
			var id int64
			if _, err := fmt.Sscanf(strings.TrimSpace(idStr), "%d", &id); err == nil {
				adminIDs = append(adminIDs, id)
			}
		}
		cfg.Telegram.AdminIDs = adminIDs
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.Server.Port == "" {
		return &apperrors.ConfigError{Section: "server", Message: "PORT is required"}
	}

	switch cfg.Store.Backend {
	case BackendFile:
		if cfg.Store.DataDir == "" {
			return &apperrors.ConfigError{Section: "store", Message: "DATA_DIR is required for the file backend"}
		}
	case BackendMemory:
	case BackendMongo:
		if cfg.Store.MongoURI == "" {
			return &apperrors.ConfigError{Section: "store", Message: "MONGO_URI is required for the mongo backend"}
		}
	case BackendPostgres:
		if cfg.Store.PostgresURL == "" {
			return &apperrors.ConfigError{Section: "store", Message: "POSTGRES_URL is required for the postgres backend"}
		}
	default:
		return &apperrors.ConfigError{Section: "store", Message: fmt.Sprintf("unknown STORE_BACKEND %q", cfg.Store.Backend)}
	}

	if cfg.Auth.AdminUsername == "" {
		return &apperrors.ConfigError{Section: "auth", Message: "ADMIN_USERNAME must not be empty"}
	}

	switch cfg.Auth.TokenMode {
	case "plain":
	case "signed":
		if cfg.Auth.TokenSecret == "" {
			return &apperrors.ConfigError{Section: "auth", Message: "TOKEN_SECRET is required when TOKEN_MODE=signed"}
		}
	default:
		return &apperrors.ConfigError{Section: "auth", Message: fmt.Sprintf("unknown TOKEN_MODE %q", cfg.Auth.TokenMode)}
	}

	if cfg.Auth.TokenTTL < 0 {
		return &apperrors.ConfigError{Section: "auth", Message: "TOKEN_TTL must not be negative"}
	}

	if cfg.Telegram.Token != "" && len(cfg.Telegram.AdminIDs) == 0 {
		return &apperrors.ConfigError{Section: "telegram", Message: "TG_ADMIN_IDS is required when TG_TOKEN is set"}
	}

	if cfg.Telegram.AdminBot && cfg.Telegram.Token == "" {
		return &apperrors.ConfigError{Section: "telegram", Message: "TG_TOKEN is required when TG_ADMIN_BOT is set"}
	}

	return nil
}

// splitList splits a comma separated value, dropping empty entries
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
