package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values can be written as "10m" or "6h".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds all application configuration.
type Config struct {
	Notify struct {
		Channel          string `yaml:"channel"` // "lark" or "telegram"
		LarkWebhookURL   string `yaml:"lark_webhook_url"`
		TelegramBotToken string `yaml:"telegram_bot_token"`
		TelegramChatID   string `yaml:"telegram_chat_id"`
	} `yaml:"notify"`
	DataSource struct {
		BaseURL      string `yaml:"base_url"`
		CurrencyPair string `yaml:"currency_pair"`
	} `yaml:"data_source"`
	Monitor struct {
		PollInterval Duration `yaml:"poll_interval"`
		Retention    Duration `yaml:"retention"`
		Period       int      `yaml:"period"`
		DigestCron   string   `yaml:"digest_cron"`
	} `yaml:"monitor"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("NOTIFY_CHANNEL"); v != "" {
		cfg.Notify.Channel = v
	}
	if v := os.Getenv("LARK_WEBHOOK_URL"); v != "" {
		cfg.Notify.LarkWebhookURL = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Notify.TelegramBotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Notify.TelegramChatID = v
	}
	if v := os.Getenv("GATE_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("CURRENCY_PAIR"); v != "" {
		cfg.DataSource.CurrencyPair = v
	}
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Monitor.PollInterval = Duration(parsed)
		}
	}
	if v := os.Getenv("RETENTION"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Monitor.Retention = Duration(parsed)
		}
	}
	if v := os.Getenv("INDICATOR_PERIOD"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Monitor.Period = parsed
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Notify.Channel == "" {
		cfg.Notify.Channel = "lark"
	}
	if cfg.DataSource.BaseURL == "" {
		cfg.DataSource.BaseURL = "https://api.gateio.ws"
	}
	if cfg.DataSource.CurrencyPair == "" {
		cfg.DataSource.CurrencyPair = "HSK_USDT"
	}
	if cfg.Monitor.PollInterval == 0 {
		cfg.Monitor.PollInterval = Duration(10 * time.Minute)
	}
	if cfg.Monitor.Retention == 0 {
		cfg.Monitor.Retention = Duration(6 * time.Hour)
	}
	if cfg.Monitor.Period == 0 {
		cfg.Monitor.Period = 14
	}
	if cfg.Monitor.DigestCron == "" {
		cfg.Monitor.DigestCron = "0 0 9 * * *"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/price_sentinel.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	switch c.Notify.Channel {
	case "lark":
		if c.Notify.LarkWebhookURL == "" {
			return fmt.Errorf("notify.lark_webhook_url is required for the lark channel")
		}
	case "telegram":
		if c.Notify.TelegramBotToken == "" {
			return fmt.Errorf("notify.telegram_bot_token is required for the telegram channel")
		}
		if c.Notify.TelegramChatID == "" {
			return fmt.Errorf("notify.telegram_chat_id is required for the telegram channel")
		}
	default:
		return fmt.Errorf("notify.channel must be \"lark\" or \"telegram\", got %q", c.Notify.Channel)
	}
	if c.Monitor.PollInterval.Std() <= 0 {
		return fmt.Errorf("monitor.poll_interval must be positive")
	}
	if c.Monitor.Retention.Std() < c.Monitor.PollInterval.Std() {
		return fmt.Errorf("monitor.retention must be at least one poll interval")
	}
	if c.Monitor.Period <= 0 {
		return fmt.Errorf("monitor.period must be positive")
	}
	return nil
}
