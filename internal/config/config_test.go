package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DLB_TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("DLB_TELEGRAM_CHAT_ID", "-1001234567890")
	t.Setenv("DLB_FEED_URL", "https://example.com/DEADLINES.json")
}

func writeHCL(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.TelegramBotToken)
	assert.Equal(t, int64(-1001234567890), cfg.TelegramChatID)
	assert.Equal(t, 0, cfg.TelegramMessageID)
	assert.False(t, cfg.Persistent())
	assert.Equal(t, FeedFormatJSON, cfg.FeedFormat)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "@every 1m", cfg.RefreshSchedule)
	assert.Equal(t, 24*time.Hour, cfg.Lifetime)
	assert.Equal(t, 3*time.Hour, cfg.UTCOffset)
	assert.True(t, cfg.CalendarLinks)
	assert.NotEmpty(t, cfg.AddDeadlineURL)
	assert.Empty(t, cfg.CategoriesFile)

	schedule, err := cfg.Schedule()
	require.NoError(t, err)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Minute, schedule.Next(now).Sub(now))
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeHCL(t, `
telegram_bot_token = "file-token"
telegram_chat_id = 42
telegram_message_id = 7
feed_url = "https://example.com/feed.xml"
feed_format = "rss"
calendar_links = false
lifetime = "2h"
bot_username = "deadliner_bot"
`)
	t.Setenv("DLB_TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("DLB_FILTER_KEYWORDS", "optional,draft")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.TelegramBotToken)
	assert.Equal(t, int64(42), cfg.TelegramChatID)
	assert.Equal(t, 7, cfg.TelegramMessageID)
	assert.True(t, cfg.Persistent())
	assert.Equal(t, FeedFormatRSS, cfg.FeedFormat)
	assert.False(t, cfg.CalendarLinks)
	assert.Equal(t, 2*time.Hour, cfg.Lifetime)
	assert.Equal(t, "deadliner_bot", cfg.BotUsername)
	assert.Equal(t, []string{"optional", "draft"}, cfg.FilterKeywords)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DLB_TELEGRAM_BOT_TOKEN", "token")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		TelegramBotToken: "token",
		TelegramChatID:   1,
		FeedURL:          "https://example.com",
		FeedFormat:       FeedFormatJSON,
		FetchTimeout:     time.Second,
		RefreshSchedule:  "*/5 * * * *",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"zero chat", func(c *Config) { c.TelegramChatID = 0 }},
		{"negative message", func(c *Config) { c.TelegramMessageID = -1 }},
		{"no feed", func(c *Config) { c.FeedURL = "" }},
		{"unknown format", func(c *Config) { c.FeedFormat = "xml" }},
		{"zero timeout", func(c *Config) { c.FetchTimeout = 0 }},
		{"negative lifetime", func(c *Config) { c.Lifetime = -time.Hour }},
		{"bad schedule", func(c *Config) { c.RefreshSchedule = "every minute" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
