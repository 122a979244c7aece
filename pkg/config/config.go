package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	expanded, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(expanded) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return parse(data)
}

// LoadOptional behaves like Load but falls back to the defaults when the
// file does not exist. It is used for the implicit default config path.
func LoadOptional(ctx context.Context, path string) (*Config, error) {
	cfg, err := Load(ctx, path)
	if errors.Is(err, fs.ErrNotExist) {
		return parse(nil)
	}
	return cfg, err
}

func parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.applyEnvironmentOverrides(); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors and expands the log file path.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.LogFile) == "" {
		return errors.New("log_file: a log file path is required")
	}

	logFile, err := ExpandHome(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("log_file: %w", err)
	}
	cfg.LogFile = logFile

	if cfg.GroupDepth < 0 {
		return fmt.Errorf("group_depth: must be >= 0, got %d", cfg.GroupDepth)
	}

	for i, prefix := range cfg.NonBillable {
		if strings.TrimSpace(prefix) == "" {
			return fmt.Errorf("non_billable[%d]: empty prefix would match every group", i)
		}
	}

	if err := validateTargets(&cfg.Targets); err != nil {
		return fmt.Errorf("targets: %w", err)
	}

	// Webhooks are optional, but validate if present
	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

func validateTargets(t *TargetsConfig) error {
	if t.HoursPerDay < 0 || t.HoursPerDay > 24 {
		return fmt.Errorf("hours_per_day must be between 0 and 24, got %v", t.HoursPerDay)
	}
	if t.DaysPerWeek < 0 || t.DaysPerWeek > 7 {
		return fmt.Errorf("days_per_week must be between 0 and 7, got %d", t.DaysPerWeek)
	}
	return nil
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	wh.Token = expandEnvVar(wh.Token)

	switch wh.Trigger {
	case "":
		wh.Trigger = WebhookTriggerAlways
	case WebhookTriggerAlways, WebhookTriggerOnHours, WebhookTriggerNever:
	default:
		return fmt.Errorf("invalid trigger %q (must be always, on_hours, or never)", wh.Trigger)
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}

	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		return os.Getenv(s[1:])
	}

	return s
}
