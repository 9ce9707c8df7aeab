package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Joonasjoonasjoonas/target-watcher/internal/domain"
	"github.com/Joonasjoonasjoonas/target-watcher/internal/report"
)

const webhookTimeout = 15 * time.Second

// chatSink posts {"text": ...} to an incoming-webhook URL.
type chatSink struct {
	cfg      Config
	http     *http.Client
	hostname string
}

func newChatSink(cfg Config, hostname string) *chatSink {
	return &chatSink{
		cfg:      cfg,
		http:     &http.Client{Timeout: webhookTimeout},
		hostname: hostname,
	}
}

func (s *chatSink) notify(ctx context.Context, hits []domain.Target) Result {
	res := Result{Sink: "chat"}
	if s.cfg.WebhookURL == "" {
		res.Skipped = true
		return res
	}
	if len(hits) == 0 && s.cfg.SuppressEmpty {
		res.Skipped = true
		return res
	}

	var text string
	if s.cfg.SummaryOnly {
		text = report.Compact(hits, report.Options{
			Title:           s.cfg.Title,
			FeedURL:         s.cfg.FeedURL,
			ExamplesPerHost: s.cfg.ExamplesPerHost,
			MaxHosts:        s.cfg.MaxHosts,
		})
	} else {
		text = report.VerboseHeader(hits, s.cfg.Title, s.cfg.FeedURL, s.hostname)
	}

	res.Err = s.post(ctx, text)
	return res
}

func (s *chatSink) alert(ctx context.Context, fetchErr error) Result {
	res := Result{Sink: "chat"}
	if s.cfg.WebhookURL == "" {
		res.Skipped = true
		return res
	}

	text := fmt.Sprintf(":warning: Target Watcher Error :warning:\n\n*%s*: %v\n_host: %s_",
		s.cfg.Title, fetchErr, s.hostname)
	res.Err = s.post(ctx, text)
	return res
}

func (s *chatSink) post(ctx context.Context, text string) error {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("webhook post failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("webhook post failed: http %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
