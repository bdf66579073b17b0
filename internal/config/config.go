package config

import "time"

// Config represents the application configuration
type Config struct {
	Server    ServerConfig   `mapstructure:"server"`
	Store     StoreConfig    `mapstructure:"store"`
	Auth      AuthConfig     `mapstructure:"auth"`
	Telegram  TelegramConfig `mapstructure:"telegram"`
	LogLevel  string         `mapstructure:"log_level"`
	LogFormat string         `mapstructure:"log_format"`
}

// ServerConfig holds the standing HTTP server configuration
type ServerConfig struct {
	Port        string   `mapstructure:"port"`
	StaticDir   string   `mapstructure:"static_dir"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// StoreConfig selects and configures the collection store backend
type StoreConfig struct {
	Backend          string `mapstructure:"backend"`
	DataDir          string `mapstructure:"data_dir"`
	FilePrefix       string `mapstructure:"file_prefix"`
	MongoURI         string `mapstructure:"mongo_uri"`
	MongoDatabase    string `mapstructure:"mongo_database"`
	PostgresURL      string `mapstructure:"postgres_url"`
	ReloadPerRequest bool   `mapstructure:"reload_per_request"`
}

// AuthConfig holds identity and token settings
type AuthConfig struct {
	AdminUsername string        `mapstructure:"admin_username"`
	TokenMode     string        `mapstructure:"token_mode"`
	TokenSecret   string        `mapstructure:"token_secret"`
	TokenTTL      int           `mapstructure:"token_ttl"` // seconds, 0 = no expiry
	RateLimit     int           `mapstructure:"rate_limit"`
	RateWindow    time.Duration `mapstructure:"rate_window"`
}

// TelegramConfig holds the admin notification bot configuration
type TelegramConfig struct {
	Token    string  `mapstructure:"token"`
	AdminIDs []int64 `mapstructure:"admin_ids"`
	AdminBot bool    `mapstructure:"admin_bot"` // Poll for admin commands in the standing server
}

// Store backends
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
)
