// Package config provides configuration loading and validation for worklog.
package config

import (
	"time"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// LogFile is the activity log path. A leading "~" expands to the
	// user's home directory.
	LogFile string `yaml:"log_file"`

	// GroupDepth is how many description tokens form a group key.
	// Zero disables grouping.
	GroupDepth int `yaml:"group_depth"`

	// NonBillable lists group-key prefixes (case-insensitive) whose hours
	// are not billable.
	NonBillable []string `yaml:"non_billable,omitempty"`

	// Targets are the expected working hours.
	Targets TargetsConfig `yaml:"targets,omitempty"`

	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// TargetsConfig defines expected working hours for weekly balances.
type TargetsConfig struct {
	HoursPerDay float64 `yaml:"hours_per_day"`
	DaysPerWeek int     `yaml:"days_per_week"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerAlways fires after every report (default).
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerOnHours fires only when the report holds any hours.
	WebhookTriggerOnHours WebhookTrigger = "on_hours"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "always" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
