// Package config resolves the bot configuration from environment variables,
// an optional YAML file, and default values. The result is an immutable
// snapshot resolved once at startup.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

// ErrConfiguration marks every error produced while resolving the configuration.
// Such errors are fatal and are reported before any network activity.
var ErrConfiguration = errors.New("configuration error")

// Config defines the application configuration. Values come from the
// environment variables named in defaults.go; a YAML file may provide the
// same keys in lower case.
type Config struct {
	// Credentials
	TelegramToken string `mapstructure:"telegram_bot_token" validate:"required"`
	APIKey        string `mapstructure:"api_key"            validate:"required"`

	// Destination channels, one of which becomes TargetChatID
	RussianChatID string `mapstructure:"russian_chat_id"`
	EnglishChatID string `mapstructure:"english_chat_id"`
	TestChatID    string `mapstructure:"telegram_test_chat_id"`

	// Content API
	APIBaseURL   string        `mapstructure:"api_base_url"  validate:"required,url"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout" validate:"min=1s,max=5m"`

	Timezone     string        `mapstructure:"timezone"      validate:"required"`
	Language     string        `mapstructure:"language"      validate:"required,oneof=en ru"`
	PostInterval time.Duration `mapstructure:"post_interval" validate:"min=0s,max=24h"`
	Schedule     string        `mapstructure:"schedule"      validate:"required"`

	PushgatewayURL string `mapstructure:"pushgateway_url" validate:"omitempty,url"`

	LogLevel  string `mapstructure:"log_level"  validate:"required,oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"required,oneof=json text"`
	LogDir    string `mapstructure:"log_dir"`

	// Derived during Load.
	TestMode     bool   `mapstructure:"-"`
	TargetChatID string `mapstructure:"-"`
	TargetName   string `mapstructure:"-"`

	location *time.Location
	chatID   any
}

// Location returns the timezone used to compute today's date.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// ChatID returns the resolved target chat in the form the Telegram API
// expects: an int64 for numeric ids, the "@name" string for public channels.
func (c *Config) ChatID() any {
	return c.chatID
}

// TodayParts returns now's month and day in the configured timezone as
// two-digit zero-padded strings, e.g. "03" and "07".
func (c *Config) TodayParts(now time.Time) (month, day string) {
	t := now.In(c.Location())
	return fmt.Sprintf("%02d", int(t.Month())), fmt.Sprintf("%02d", t.Day())
}

// IsRussian reports whether messages are rendered in Russian.
func (c *Config) IsRussian() bool {
	return c.Language == LanguageRussian
}

// LogFilePath returns the per-language log file, or "" when file logging is off.
func (c *Config) LogFilePath() string {
	if c.LogDir == "" {
		return ""
	}
	return filepath.Join(c.LogDir, fmt.Sprintf("bitcoin_events_bot_%s.log", c.Language))
}
