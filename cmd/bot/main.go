package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"PriceSentinel/internal/collector"
	"PriceSentinel/internal/config"
	"PriceSentinel/internal/indicator"
	"PriceSentinel/internal/monitor"
	"PriceSentinel/internal/notifier"
	"PriceSentinel/internal/recorder"
	"PriceSentinel/internal/window"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] PriceSentinel starting...")

	// Optional .env for local development
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env")
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	fetcher := collector.NewGateFetcher(cfg.DataSource.BaseURL, cfg.DataSource.CurrencyPair, cfg.Proxy)
	log.Printf("[INFO] data source: %s (%s)", fetcher.Name(), cfg.DataSource.CurrencyPair)

	// Init notifier
	var sink notifier.Notifier
	switch cfg.Notify.Channel {
	case "telegram":
		sink = notifier.NewTelegramNotifier(cfg.Notify.TelegramBotToken, cfg.Notify.TelegramChatID, cfg.Proxy)
	default:
		sink = notifier.NewLarkNotifier(cfg.Notify.LarkWebhookURL, cfg.Proxy)
	}
	log.Printf("[INFO] notify channel: %s", sink.Name())

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init poll loop
	loop := monitor.NewLoop(
		fetcher,
		window.New(cfg.Monitor.Retention.Std()),
		indicator.NewEngine(cfg.Monitor.Period),
		sink,
		rec,
		cfg.DataSource.CurrencyPair,
		cfg.Monitor.PollInterval.Std(),
	)
	go loop.Run(ctx)

	// Daily digest
	c := cron.New(cron.WithSeconds())
	digest := &monitor.Digest{Recorder: rec, Notifier: sink, Pair: cfg.DataSource.CurrencyPair}
	if err := digest.Register(c, cfg.Monitor.DigestCron); err != nil {
		log.Fatalf("[FATAL] register digest task: %v", err)
	}
	c.Start()
	defer c.Stop()

	// Interactive commands are only available on the Telegram channel.
	if tn, ok := sink.(*notifier.TelegramNotifier); ok {
		go tn.StartPolling(ctx, loop.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	log.Println("[INFO] PriceSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] PriceSentinel stopped")
}
