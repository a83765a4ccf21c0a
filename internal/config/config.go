package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultJWTSecret = "dev-jwt-secret-not-for-production-use-64-chars-minimum-padding"
	defaultAdminKey  = "dev-admin-key"
)

type Config struct {
	Env         string
	LogLevel    string
	Port        string
	DatabaseURL string
	JWTSecret   string
	AdminKey    string

	// Discord
	BotToken         string
	ClientID         string
	ChannelIDs       []string
	GeneralChannels  []string
	HelpChannels     []string
	ModLogWebhookURL string

	TrackerCapacity int
}

// Load reads configuration from the environment, loading a .env file first
// when one exists.
func Load() *Config {
	_ = godotenv.Load()

	token := os.Getenv("DISCORD_BOT_TOKEN")
	if token == "" {
		token = os.Getenv("TOKEN")
	}

	cfg := &Config{
		Env:              getEnv("ENV", "development"),
		Port:             getEnv("PORT", "5000"),
		LogLevel:         os.Getenv("LOG_LEVEL"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSecret:        getEnv("JWT_SECRET", defaultJWTSecret),
		AdminKey:         getEnv("ADMIN_KEY", defaultAdminKey),
		BotToken:         token,
		ClientID:         os.Getenv("DISCORD_CLIENT_ID"),
		ChannelIDs:       getEnvList("CHANNEL_IDS", nil),
		GeneralChannels:  getEnvList("GENERAL_CHANNEL_NAMES", []string{"general", "chat-general", "principal"}),
		HelpChannels:     getEnvList("HELP_CHANNEL_NAMES", []string{"ayuda", "help", "soporte", "tech-help"}),
		ModLogWebhookURL: os.Getenv("MODLOG_WEBHOOK_URL"),
		TrackerCapacity:  getEnvInt("TRACKER_CAPACITY", 10000),
	}

	if cfg.IsProduction() {
		if cfg.BotToken == "" {
			panic("DISCORD_BOT_TOKEN is required in production")
		}
		if cfg.JWTSecret == defaultJWTSecret {
			panic("JWT_SECRET must be set in production")
		}
		if cfg.AdminKey == defaultAdminKey {
			panic("ADMIN_KEY must be set in production")
		}
	}

	return cfg
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// getEnvList parses a comma-separated value, dropping empty entries.
func getEnvList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			out = append(out, entry)
		}
	}
	return out
}
