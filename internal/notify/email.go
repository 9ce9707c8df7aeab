package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/Joonasjoonasjoonas/target-watcher/internal/domain"
	"github.com/Joonasjoonasjoonas/target-watcher/internal/report"
)

const smtpTimeout = 30 * time.Second

// emailSink sends one plain-text message per cycle over SMTP with STARTTLS.
// It always uses the verbose report, regardless of the chat sink's
// summary-only setting.
type emailSink struct {
	cfg Config
}

func newEmailSink(cfg Config) *emailSink {
	return &emailSink{cfg: cfg}
}

func (s *emailSink) configured() bool {
	return s.cfg.SMTPHost != "" && s.cfg.EmailFrom != "" && s.cfg.EmailTo != ""
}

func (s *emailSink) notify(ctx context.Context, hits []domain.Target) Result {
	res := Result{Sink: "email"}
	if !s.configured() {
		res.Skipped = true
		return res
	}
	if len(hits) == 0 {
		res.Skipped = true
		return res
	}

	msg := mail.NewMsg()
	if err := msg.From(s.cfg.EmailFrom); err != nil {
		res.Err = fmt.Errorf("invalid sender %q: %w", s.cfg.EmailFrom, err)
		return res
	}
	if err := msg.To(s.cfg.EmailTo); err != nil {
		res.Err = fmt.Errorf("invalid recipient %q: %w", s.cfg.EmailTo, err)
		return res
	}
	msg.Subject(fmt.Sprintf("[watcher] %d new match(es)", len(hits)))
	msg.SetBodyString(mail.TypeTextPlain, s.body(hits))

	opts := []mail.Option{
		mail.WithPort(s.cfg.SMTPPort),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(smtpTimeout),
	}
	if s.cfg.SMTPUser != "" && s.cfg.SMTPPass != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.SMTPUser),
			mail.WithPassword(s.cfg.SMTPPass),
		)
	}

	client, err := mail.NewClient(s.cfg.SMTPHost, opts...)
	if err != nil {
		res.Err = fmt.Errorf("smtp client setup failed: %w", err)
		return res
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		res.Err = fmt.Errorf("smtp send failed: %w", err)
	}
	return res
}

func (s *emailSink) body(hits []domain.Target) string {
	return fmt.Sprintf("%d new match(es) found while checking %s\n\nMonitored hosts: %s\n\n%s\n",
		len(hits), s.cfg.FeedURL, strings.Join(s.cfg.MonitoredHosts, ", "), report.Verbose(hits))
}
