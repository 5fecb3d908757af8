package conf

import (
	"os"
	"path/filepath"
	"strconv"
)

// Config represents application configuration
type Config struct {
	// Discord configuration
	Discord DiscordConfig

	// GPG configuration
	GPG GPGConfig

	// Command history configuration
	History HistoryConfig

	// Debug mode
	Debug bool
}

// DiscordConfig contains Discord configuration
type DiscordConfig struct {
	Token     string
	ChannelID uint64 // Static default channel, may be shadowed by a session override
}

// GPGConfig contains GPG configuration
type GPGConfig struct {
	Binary string // Path or name of the gpg executable
}

// HistoryConfig contains command history configuration
type HistoryConfig struct {
	DBPath string
	Limit  int // Entries loaded into the shell at startup
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	channelID := uint64(0)
	if val := os.Getenv("DISCORD_CHANNEL_ID"); val != "" {
		if parsed, err := strconv.ParseUint(val, 10, 64); err == nil {
			channelID = parsed
		}
	}

	gpgBinary := os.Getenv("GPG_BINARY")
	if gpgBinary == "" {
		gpgBinary = "gpg"
	}

	historyDBPath := os.Getenv("PGP_DISC_HISTORY_DB")
	if historyDBPath == "" {
		homeDir, _ := os.UserHomeDir()
		historyDBPath = filepath.Join(homeDir, ".pgp-disc", "history.db")
	}

	historyLimit := 200
	if val := os.Getenv("PGP_DISC_HISTORY_LIMIT"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			historyLimit = parsed
		}
	}

	return &Config{
		Discord: DiscordConfig{
			Token:     os.Getenv("DISCORD_TOKEN"),
			ChannelID: channelID,
		},
		GPG: GPGConfig{
			Binary: gpgBinary,
		},
		History: HistoryConfig{
			DBPath: historyDBPath,
			Limit:  historyLimit,
		},
		Debug: os.Getenv("DEBUG") == "true",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Discord.Token == "" {
		return &ConfigError{Field: "DISCORD_TOKEN", Message: "required"}
	}
	if c.Discord.ChannelID == 0 {
		return &ConfigError{Field: "DISCORD_CHANNEL_ID", Message: "required, must be a channel id integer"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
