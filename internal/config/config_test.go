package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "lark", cfg.Notify.Channel)
	assert.Equal(t, "https://api.gateio.ws", cfg.DataSource.BaseURL)
	assert.Equal(t, "HSK_USDT", cfg.DataSource.CurrencyPair)
	assert.Equal(t, 10*time.Minute, cfg.Monitor.PollInterval.Std())
	assert.Equal(t, 6*time.Hour, cfg.Monitor.Retention.Std())
	assert.Equal(t, 14, cfg.Monitor.Period)
}

func TestLoad_ParsesDurationsAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
notify:
  channel: telegram
  telegram_bot_token: tok
  telegram_chat_id: "42"
monitor:
  poll_interval: 1m
  retention: 2h
  period: 7
`), 0644))

	t.Setenv("POLL_INTERVAL", "30s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Monitor.PollInterval.Std(), "env must override file")
	assert.Equal(t, 2*time.Hour, cfg.Monitor.Retention.Std())
	assert.Equal(t, 7, cfg.Monitor.Period)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		cfg.Notify.LarkWebhookURL = "https://open.larksuite.com/open-apis/bot/v2/hook/x"
		return cfg
	}

	t.Run("ok", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("missing lark webhook", func(t *testing.T) {
		cfg := base()
		cfg.Notify.LarkWebhookURL = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown channel", func(t *testing.T) {
		cfg := base()
		cfg.Notify.Channel = "pigeon"
		assert.Error(t, cfg.Validate())
	})

	t.Run("retention below poll interval", func(t *testing.T) {
		cfg := base()
		cfg.Monitor.Retention = Duration(time.Minute)
		assert.Error(t, cfg.Validate())
	})
}
