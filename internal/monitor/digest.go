package monitor

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"PriceSentinel/internal/notifier"
	"PriceSentinel/internal/recorder"
)

// digestWindow is how far back the daily digest looks.
const digestWindow = 24 * time.Hour

// Digest pushes a daily sample summary through the notifier on a cron
// schedule. It only reads from the recorder, never from the live window.
type Digest struct {
	Recorder recorder.Recorder
	Notifier notifier.Notifier
	Pair     string
}

// Register adds the digest job to the cron runner.
func (d *Digest) Register(c *cron.Cron, spec string) error {
	if _, err := c.AddFunc(spec, d.run); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

func (d *Digest) run() {
	log.Println("[INFO] running daily digest")
	text, err := d.Build()
	if err != nil {
		log.Printf("[ERROR] build digest: %v", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := notifier.SendWithRetry(ctx, d.Notifier, text, 3); err != nil {
		log.Printf("[ERROR] send digest: %v", err)
	}
}

// Build renders the digest over the recorded samples of the last 24 hours.
func (d *Digest) Build() (string, error) {
	stats, err := d.Recorder.Stats(time.Now().Add(-digestWindow))
	if err != nil {
		return "", fmt.Errorf("digest stats: %w", err)
	}
	return notifier.FormatDigest(d.Pair, stats), nil
}
