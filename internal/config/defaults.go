package config

import "time"

// Default values for optional configuration parameters.
const (
	DefaultAPIBaseURL = "http://localhost:3000/api"
	DefaultTimezone   = "UTC"
	DefaultLanguage   = LanguageEnglish

	DefaultFetchTimeout = 30 * time.Second
	DefaultPostInterval = time.Hour
	DefaultSchedule     = "0 9 * * *" // every day at 09:00 in the configured timezone

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultLogDir    = "."
)

// Supported display languages.
const (
	LanguageEnglish = "en"
	LanguageRussian = "ru"
)

// Environment variable names. Keys double as the viper keys (lower-cased)
// and as the keys of the optional YAML config file.
const (
	EnvTelegramToken  = "TELEGRAM_BOT_TOKEN"
	EnvAPIKey         = "API_KEY"
	EnvRussianChatID  = "RUSSIAN_CHAT_ID"
	EnvEnglishChatID  = "ENGLISH_CHAT_ID"
	EnvTestChatID     = "TELEGRAM_TEST_CHAT_ID"
	EnvAPIBaseURL     = "API_BASE_URL"
	EnvTimezone       = "TIMEZONE"
	EnvLanguage       = "LANGUAGE"
	EnvTestMode       = "TEST_MODE"
	EnvFetchTimeout   = "FETCH_TIMEOUT"
	EnvPostInterval   = "POST_INTERVAL"
	EnvSchedule       = "SCHEDULE"
	EnvPushgatewayURL = "PUSHGATEWAY_URL"
	EnvLogLevel       = "LOG_LEVEL"
	EnvLogFormat      = "LOG_FORMAT"
	EnvLogDir         = "LOG_DIR"
)

var defaults = map[string]any{
	EnvAPIBaseURL:   DefaultAPIBaseURL,
	EnvTimezone:     DefaultTimezone,
	EnvLanguage:     DefaultLanguage,
	EnvTestMode:     "false",
	EnvFetchTimeout: DefaultFetchTimeout,
	EnvPostInterval: DefaultPostInterval,
	EnvSchedule:     DefaultSchedule,
	EnvLogLevel:     DefaultLogLevel,
	EnvLogFormat:    DefaultLogFormat,
	EnvLogDir:       DefaultLogDir,
}

// envKeys lists every variable Load binds, optional or not.
var envKeys = []string{
	EnvTelegramToken,
	EnvAPIKey,
	EnvRussianChatID,
	EnvEnglishChatID,
	EnvTestChatID,
	EnvAPIBaseURL,
	EnvTimezone,
	EnvLanguage,
	EnvTestMode,
	EnvFetchTimeout,
	EnvPostInterval,
	EnvSchedule,
	EnvPushgatewayURL,
	EnvLogLevel,
	EnvLogFormat,
	EnvLogDir,
}
