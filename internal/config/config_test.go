package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// setEnv clears every variable Load reads and then applies vars.
func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func baseEnv() map[string]string {
	return map[string]string{
		EnvTelegramToken: "123456:token",
		EnvAPIKey:        "secret",
		EnvEnglishChatID: "-1001",
		EnvRussianChatID: "-1002",
		EnvTestChatID:    "-1003",
	}
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, baseEnv())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.APIBaseURL != DefaultAPIBaseURL {
		t.Errorf("APIBaseURL = %q, want %q", cfg.APIBaseURL, DefaultAPIBaseURL)
	}
	if cfg.Language != LanguageEnglish {
		t.Errorf("Language = %q, want %q", cfg.Language, LanguageEnglish)
	}
	if cfg.Location() != time.UTC {
		t.Errorf("Location() = %v, want UTC", cfg.Location())
	}
	if cfg.TestMode {
		t.Error("TestMode = true, want false")
	}
	if cfg.FetchTimeout != DefaultFetchTimeout {
		t.Errorf("FetchTimeout = %v, want %v", cfg.FetchTimeout, DefaultFetchTimeout)
	}
	if cfg.PostInterval != DefaultPostInterval {
		t.Errorf("PostInterval = %v, want %v", cfg.PostInterval, DefaultPostInterval)
	}
	if cfg.TargetChatID != "-1001" || cfg.TargetName != TargetEnglish {
		t.Errorf("target = %q (%s), want -1001 (english)", cfg.TargetChatID, cfg.TargetName)
	}
	if got, ok := cfg.ChatID().(int64); !ok || got != -1001 {
		t.Errorf("ChatID() = %#v, want int64(-1001)", cfg.ChatID())
	}
	if want := filepath.Join(".", "bitcoin_events_bot_en.log"); cfg.LogFilePath() != want {
		t.Errorf("LogFilePath() = %q, want %q", cfg.LogFilePath(), want)
	}
}

func TestLoadMissingCredentials(t *testing.T) {
	tests := []struct {
		name    string
		unset   string
		wantMsg string
	}{
		{name: "no bot token", unset: EnvTelegramToken, wantMsg: "TELEGRAM_BOT_TOKEN environment variable is required"},
		{name: "no api key", unset: EnvAPIKey, wantMsg: "API_KEY environment variable is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := baseEnv()
			delete(env, tt.unset)
			setEnv(t, env)

			_, err := Load("")
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("Load() error = %v, want ErrConfiguration", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Load() error = %q, want it to contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestTargetResolution(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		wantChat string
		wantName string
		wantErr  bool
	}{
		{
			name:     "test mode wins over english",
			env:      map[string]string{EnvTestMode: "true", EnvLanguage: "en"},
			wantChat: "-1003",
			wantName: TargetTest,
		},
		{
			name:     "test mode wins over russian",
			env:      map[string]string{EnvTestMode: "TRUE", EnvLanguage: "ru"},
			wantChat: "-1003",
			wantName: TargetTest,
		},
		{
			name:     "test mode without test chat falls back to language",
			env:      map[string]string{EnvTestMode: "true", EnvLanguage: "ru", EnvTestChatID: ""},
			wantChat: "-1002",
			wantName: TargetRussian,
		},
		{
			name:     "test mode only accepts literal true",
			env:      map[string]string{EnvTestMode: "1"},
			wantChat: "-1001",
			wantName: TargetEnglish,
		},
		{
			name:     "russian",
			env:      map[string]string{EnvLanguage: "ru"},
			wantChat: "-1002",
			wantName: TargetRussian,
		},
		{
			name:    "english without english chat",
			env:     map[string]string{EnvLanguage: "en", EnvEnglishChatID: ""},
			wantErr: true,
		},
		{
			name:    "russian without russian chat",
			env:     map[string]string{EnvLanguage: "ru", EnvRussianChatID: ""},
			wantErr: true,
		},
		{
			name:    "unsupported language",
			env:     map[string]string{EnvLanguage: "de"},
			wantErr: true,
		},
		{
			name:     "channel username",
			env:      map[string]string{EnvEnglishChatID: "@btc_history"},
			wantChat: "@btc_history",
			wantName: TargetEnglish,
		},
		{
			name:    "malformed chat id",
			env:     map[string]string{EnvEnglishChatID: "btc_history"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := baseEnv()
			for k, v := range tt.env {
				if v == "" {
					delete(env, k)
					continue
				}
				env[k] = v
			}
			setEnv(t, env)

			cfg, err := Load("")
			if tt.wantErr {
				if !errors.Is(err, ErrConfiguration) {
					t.Fatalf("Load() error = %v, want ErrConfiguration", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.TargetChatID != tt.wantChat {
				t.Errorf("TargetChatID = %q, want %q", cfg.TargetChatID, tt.wantChat)
			}
			if cfg.TargetName != tt.wantName {
				t.Errorf("TargetName = %q, want %q", cfg.TargetName, tt.wantName)
			}
		})
	}
}

func TestResolutionErrorNamesCombination(t *testing.T) {
	env := baseEnv()
	delete(env, EnvEnglishChatID)
	setEnv(t, env)

	_, err := Load("")
	if err == nil {
		t.Fatal("Load() error = nil, want error")
	}
	for _, want := range []string{"LANGUAGE=en", "ENGLISH_CHAT_ID=", "RUSSIAN_CHAT_ID=-1002"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestTodayParts(t *testing.T) {
	t.Parallel()

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	tests := []struct {
		name      string
		loc       *time.Location
		now       time.Time
		wantMonth string
		wantDay   string
	}{
		{name: "zero padded", loc: time.UTC, now: time.Date(2024, time.March, 7, 12, 0, 0, 0, time.UTC), wantMonth: "03", wantDay: "07"},
		{name: "two digits", loc: time.UTC, now: time.Date(2024, time.December, 25, 0, 0, 0, 0, time.UTC), wantMonth: "12", wantDay: "25"},
		{name: "zone rolls the date", loc: tokyo, now: time.Date(2024, time.January, 31, 20, 0, 0, 0, time.UTC), wantMonth: "02", wantDay: "01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := &Config{location: tt.loc}
			month, day := cfg.TodayParts(tt.now)
			if month != tt.wantMonth || day != tt.wantDay {
				t.Errorf("TodayParts() = %s/%s, want %s/%s", month, day, tt.wantMonth, tt.wantDay)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	setEnv(t, map[string]string{EnvAPIKey: "from-env"})

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := strings.Join([]string{
		"telegram_bot_token: file-token",
		"api_key: from-file",
		"language: ru",
		"russian_chat_id: \"@btc_ru\"",
		"post_interval: 90m",
		"log_dir: \"\"",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIKey != "from-env" {
		t.Errorf("APIKey = %q, want environment to override the file", cfg.APIKey)
	}
	if cfg.TelegramToken != "file-token" {
		t.Errorf("TelegramToken = %q, want file-token", cfg.TelegramToken)
	}
	if cfg.ChatID() != "@btc_ru" {
		t.Errorf("ChatID() = %#v, want @btc_ru", cfg.ChatID())
	}
	if cfg.PostInterval != 90*time.Minute {
		t.Errorf("PostInterval = %v, want 90m", cfg.PostInterval)
	}
	if cfg.LogFilePath() != "" {
		t.Errorf("LogFilePath() = %q, want file logging disabled", cfg.LogFilePath())
	}
}

func TestLoadMissingFile(t *testing.T) {
	setEnv(t, baseEnv())

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("Load() error = %v, want ErrConfiguration", err)
	}
}
