package notifier

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Notifier delivers a formatted report to a chat channel.
type Notifier interface {
	Send(ctx context.Context, text string) error
	Name() string
}

// SendWithRetry sends a message with exponential backoff. Used outside the
// poll loop (digest, startup notice), where a short retry burst is harmless.
func SendWithRetry(ctx context.Context, n Notifier, text string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := n.Send(ctx, text); err != nil {
			lastErr = err
			backoff := time.Duration(1<<uint(i)) * time.Second
			log.Printf("[WARN] %s send failed (attempt %d/%d): %v, retrying in %v", n.Name(), i+1, maxRetries+1, err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}
