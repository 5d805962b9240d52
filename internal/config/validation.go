package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Names reported in TargetName.
const (
	TargetTest    = "test"
	TargetEnglish = "english"
	TargetRussian = "russian"
)

// resolveTarget picks the single destination chat for the run.
// Resolution follows these rules in order:
//  1. Test mode with a test chat configured always wins
//  2. English language uses the English chat
//  3. Russian language uses the Russian chat
//  4. Anything else is a configuration error
func (c *Config) resolveTarget() error {
	switch {
	case c.TestMode && c.TestChatID != "":
		c.TargetChatID, c.TargetName = c.TestChatID, TargetTest
	case c.Language == LanguageEnglish && c.EnglishChatID != "":
		c.TargetChatID, c.TargetName = c.EnglishChatID, TargetEnglish
	case c.Language == LanguageRussian && c.RussianChatID != "":
		c.TargetChatID, c.TargetName = c.RussianChatID, TargetRussian
	default:
		return fmt.Errorf("%w: invalid configuration: %s=%s, %s=%s, %s=%s",
			ErrConfiguration,
			EnvLanguage, c.Language,
			EnvEnglishChatID, c.EnglishChatID,
			EnvRussianChatID, c.RussianChatID)
	}

	chatID, err := parseChatID(c.TargetChatID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	c.chatID = chatID
	return nil
}

// parseChatID accepts a numeric chat id or a public channel username.
func parseChatID(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return id, nil
	}
	if strings.HasPrefix(raw, "@") && len(raw) > 1 {
		return raw, nil
	}
	return nil, fmt.Errorf("chat ID %q must be a valid integer or channel username starting with @", raw)
}
