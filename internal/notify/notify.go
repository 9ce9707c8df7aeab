// Package notify delivers cycle reports to the configured sinks. Sinks are
// independent and best-effort: each one fires only when its configuration is
// present, and a failing sink never prevents the other sink or the cycle
// from completing. Outcomes are returned as Results for the caller to log.
package notify

import (
	"context"
	"os"

	"github.com/Joonasjoonasjoonas/target-watcher/internal/domain"
	"github.com/Joonasjoonasjoonas/target-watcher/internal/logger"
)

// Config is the notifier's slice of the process configuration, passed in
// explicitly so sinks are testable with synthetic settings.
type Config struct {
	// Chat webhook
	WebhookURL      string
	SummaryOnly     bool
	SuppressEmpty   bool
	Title           string
	FeedURL         string
	ExamplesPerHost int
	MaxHosts        int

	// Email
	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPass       string
	EmailFrom      string
	EmailTo        string
	MonitoredHosts []string
}

// Result is one sink's outcome. A sink that was not configured for this run
// reports Skipped; a sink that was attempted and failed carries Err.
type Result struct {
	Sink    string
	Skipped bool
	Err     error
}

func (r Result) Ok() bool { return r.Err == nil }

type Notifier struct {
	cfg      Config
	log      logger.Logger
	chat     *chatSink
	mail     *emailSink
	hostname string
}

func New(cfg Config, log logger.Logger) *Notifier {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return &Notifier{
		cfg:      cfg,
		log:      log,
		chat:     newChatSink(cfg, hostname),
		mail:     newEmailSink(cfg),
		hostname: hostname,
	}
}

// NotifyHits runs both sinks in order and returns one Result per sink.
func (n *Notifier) NotifyHits(ctx context.Context, hits []domain.Target) []Result {
	return []Result{
		n.chat.notify(ctx, hits),
		n.mail.notify(ctx, hits),
	}
}

// AlertFetchFailure gives the chat sink one best-effort chance to report a
// feed-fetch failure before that failure propagates to the caller.
func (n *Notifier) AlertFetchFailure(ctx context.Context, fetchErr error) Result {
	return n.chat.alert(ctx, fetchErr)
}
