package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// LarkNotifier pushes messages to a Lark (Feishu) bot webhook.
type LarkNotifier struct {
	WebhookURL string
	Client     *http.Client
}

// NewLarkNotifier creates a notifier with optional proxy support.
func NewLarkNotifier(webhookURL, proxyURL string) *LarkNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &LarkNotifier{
		WebhookURL: webhookURL,
		Client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
	}
}

func (l *LarkNotifier) Name() string { return "lark" }

// larkPayload is the text message shape expected by the bot webhook.
type larkPayload struct {
	MsgType string `json:"msg_type"`
	Content struct {
		Text string `json:"text"`
	} `json:"content"`
}

// Send posts a text message to the webhook.
func (l *LarkNotifier) Send(ctx context.Context, text string) error {
	payload := larkPayload{MsgType: "text"}
	payload.Content.Text = text
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send to lark webhook: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("lark webhook error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	// Lark reports failures with a 200 status and a non-zero code.
	var result struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.Unmarshal(respBody, &result); err == nil && result.Code != 0 {
		return fmt.Errorf("lark webhook rejected message: code %d, msg %s", result.Code, result.Msg)
	}
	return nil
}
