package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Joonasjoonasjoonas/target-watcher/internal/domain"
	"github.com/Joonasjoonasjoonas/target-watcher/internal/watchlist"
)

// Error marks a configuration problem. The process maps it to exit code 2
// and never attempts network calls.
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

func errorf(format string, args ...any) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

const (
	defaultStateFile = "seen.json"
	defaultEnvFile   = "target_watcher.env"
)

type Config struct {
	FeedURL string // TARGETS_URL, required

	// State
	UseState     bool   // USE_STATE, "1" = stateful
	StateBackend string // WATCHER_STATE_BACKEND: "file" | "redis"
	StateFile    string // STATE_FILE, default seen.json next to the binary

	// Redis backend (only consulted when StateBackend == "redis")
	RedisAddr     string
	RedisUser     string
	RedisPassword string
	RedisDB       int

	MonitoredHosts []string // merged MONITORED_HOSTS + MONITORED_HOSTS_FILE

	// Chat webhook sink
	WebhookURL      string
	SummaryOnly     bool // compact grouped message instead of the itemized one
	ExamplesPerHost int
	MaxHosts        int
	SuppressEmpty   bool
	Title           string

	// Email sink
	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	EmailFrom string
	EmailTo   string

	// Logging
	LogLevel  string
	PrettyLog bool
}

// Load resolves the whole configuration from the environment, optionally
// seeded from a dotenv file first. It is called once at startup; components
// receive the resulting struct rather than reading the environment themselves.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		FeedURL: getenv("TARGETS_URL", ""),

		UseState:     getenv("USE_STATE", "0") == "1",
		StateBackend: strings.ToLower(getenv("WATCHER_STATE_BACKEND", "file")),
		StateFile:    getenv("STATE_FILE", defaultStatePath()),

		RedisAddr:     getenv("WATCHER_REDIS_ADDR", ""),
		RedisUser:     getenv("WATCHER_REDIS_USERNAME", ""),
		RedisPassword: getenv("WATCHER_REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("WATCHER_REDIS_DB", 0),

		WebhookURL:      getenv("SLACK_WEBHOOK_URL", ""),
		SummaryOnly:     getenv("SLACK_SUMMARY_ONLY", "1") == "1",
		ExamplesPerHost: getenvInt("SLACK_EXAMPLES_PER_HOST", 2),
		MaxHosts:        getenvInt("SLACK_MAX_HOSTS", 10),
		SuppressEmpty:   getenv("SLACK_SUPPRESS_EMPTY", "1") == "1",
		Title:           getenv("SLACK_TITLE", "Target watcher"),

		SMTPHost:  getenv("SMTP_HOST", ""),
		SMTPPort:  getenvInt("SMTP_PORT", 587),
		SMTPUser:  getenv("SMTP_USER", ""),
		SMTPPass:  getenv("SMTP_PASS", ""),
		EmailFrom: getenv("EMAIL_FROM", ""),
		EmailTo:   getenv("EMAIL_TO", ""),

		LogLevel:  getenv("WATCHER_LOG_LEVEL", "info"),
		PrettyLog: mustBool("WATCHER_PRETTY_LOG", false),
	}

	hosts := splitAndTrim(getenv("MONITORED_HOSTS", ""))
	if path := getenv("MONITORED_HOSTS_FILE", ""); path != "" {
		fromFile, err := watchlist.Load(path)
		if err != nil {
			return nil, errorf("monitored hosts file %s: %v", path, err)
		}
		hosts = append(hosts, fromFile...)
	}
	cfg.MonitoredHosts = dedupeHosts(hosts)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.FeedURL == "" {
		return errorf("TARGETS_URL is not set")
	}
	if len(c.MonitoredHosts) == 0 {
		return errorf("no monitored hosts configured (set MONITORED_HOSTS, e.g. MONITORED_HOSTS='op.fi,kela.fi', or MONITORED_HOSTS_FILE)")
	}
	switch c.StateBackend {
	case "file":
	case "redis":
		if c.UseState && c.RedisAddr == "" {
			return errorf("WATCHER_STATE_BACKEND=redis requires WATCHER_REDIS_ADDR")
		}
	default:
		return errorf("unknown WATCHER_STATE_BACKEND %q (want file or redis)", c.StateBackend)
	}
	return nil
}

// EmailConfigured reports whether the email sink has everything it needs.
// Missing any of host/from/to silently disables the sink.
func (c *Config) EmailConfigured() bool {
	return c.SMTPHost != "" && c.EmailFrom != "" && c.EmailTo != ""
}

// loadEnvFile seeds the environment from a dotenv file when one is present,
// overriding already-set variables like the original deployment did.
func loadEnvFile() {
	path := getenv("WATCHER_ENV_FILE", defaultEnvFile)
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Overload(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load env file %s: %v\n", path, err)
	}
}

// defaultStatePath puts seen.json next to the binary, falling back to the
// working directory when the executable path is unavailable.
func defaultStatePath() string {
	exe, err := os.Executable()
	if err != nil {
		return defaultStateFile
	}
	return filepath.Join(filepath.Dir(exe), defaultStateFile)
}

func dedupeHosts(hosts []string) []string {
	seen := make(map[string]bool, len(hosts))
	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = domain.NormalizeHost(h)
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	return out
}

// helpers
func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
