// Package app wires configuration, logging, state backend selection and the
// cycle itself. One invocation is one cycle; there is no resident process.
package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Joonasjoonasjoonas/target-watcher/internal/config"
	"github.com/Joonasjoonasjoonas/target-watcher/internal/feed"
	"github.com/Joonasjoonasjoonas/target-watcher/internal/logger"
	"github.com/Joonasjoonasjoonas/target-watcher/internal/notify"
	"github.com/Joonasjoonasjoonas/target-watcher/internal/redis"
	"github.com/Joonasjoonasjoonas/target-watcher/internal/store"
	"github.com/Joonasjoonasjoonas/target-watcher/internal/version"
	"github.com/Joonasjoonasjoonas/target-watcher/internal/watcher"
)

// Run executes one watch cycle. The returned error's type decides the exit
// code: *config.Error means exit 2, anything else exit 1.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = log.Sync() }()

	log.Info("target-watcher starting",
		logger.String("version", version.Version),
		logger.Int("monitored_hosts", len(cfg.MonitoredHosts)),
		logger.Bool("stateful", cfg.UseState),
		logger.String("state_backend", cfg.StateBackend))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, cleanup, err := newStore(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	cycle := &watcher.Cycle{
		Feed:      feed.NewClient(cfg.FeedURL),
		Store:     st,
		Notifier:  notify.New(notifierConfig(cfg), log),
		Monitored: cfg.MonitoredHosts,
		Log:       log,
	}

	stats, err := cycle.Run(ctx)
	if err != nil {
		return err
	}

	if stats.Hits > 0 {
		log.Infof("Found %d new matches.", stats.Hits)
	} else {
		log.Infof("No new matches.")
	}
	return nil
}

// newStore picks the state backend. Stateless mode wins over any backend
// setting: nothing is loaded or saved.
func newStore(cfg *config.Config, log logger.Logger) (store.Store, func(), error) {
	noop := func() {}

	if !cfg.UseState {
		return store.NewStateless(), noop, nil
	}

	if cfg.StateBackend == "redis" {
		client, err := redis.New(redis.ConnectOptions{
			Addr:     cfg.RedisAddr,
			User:     cfg.RedisUser,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, log)
		if err != nil {
			return nil, noop, err
		}
		return store.NewRedisStore(client, log), func() { _ = client.Close() }, nil
	}

	return store.NewFileStore(cfg.StateFile, log), noop, nil
}

func notifierConfig(cfg *config.Config) notify.Config {
	return notify.Config{
		WebhookURL:      cfg.WebhookURL,
		SummaryOnly:     cfg.SummaryOnly,
		SuppressEmpty:   cfg.SuppressEmpty,
		Title:           cfg.Title,
		FeedURL:         cfg.FeedURL,
		ExamplesPerHost: cfg.ExamplesPerHost,
		MaxHosts:        cfg.MaxHosts,
		SMTPHost:        cfg.SMTPHost,
		SMTPPort:        cfg.SMTPPort,
		SMTPUser:        cfg.SMTPUser,
		SMTPPass:        cfg.SMTPPass,
		EmailFrom:       cfg.EmailFrom,
		EmailTo:         cfg.EmailTo,
		MonitoredHosts:  cfg.MonitoredHosts,
	}
}
