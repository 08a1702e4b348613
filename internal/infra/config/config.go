package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// HomeAssistant holds the connection settings for the Home Assistant server.
type HomeAssistant struct {
	URL         string `yaml:"url"`
	AccessToken string `yaml:"access_token"`
	EntityID    string `yaml:"entity_id"`
	Insecure    bool   `yaml:"insecure"`
}

// Rule maps one entity state (or "default") to a webhook destination.
// Declaration order matters: on duplicate states the first one wins.
type Rule struct {
	State      string `yaml:"state"`
	WebhookURL string `yaml:"webhook_url"`
	Message    string `yaml:"message"`
	TargetID   string `yaml:"target_id,omitempty"`
}

// Summary is the optional secondary destination for run outcome reports.
type Summary struct {
	WebhookURL string `yaml:"webhook_url"`
	TargetID   string `yaml:"target_id,omitempty"`
}

// AppConfig holds all configuration for the application.
type AppConfig struct {
	HomeAssistant HomeAssistant `yaml:"home_assistant"`
	Rules         []Rule        `yaml:"rules"`
	Summary       *Summary      `yaml:"summary,omitempty"`
	DataDir       string        `yaml:"data_dir"`
	CronSpec      string        `yaml:"cron_spec"`
	LogLevel      string        `yaml:"log_level"`
	Environment   string        `yaml:"environment"`
}

// Load reads configuration from the YAML file at path. A .env file (if
// present) and environment variables supply overrides, so the Home Assistant
// credential can stay out of the config file.
func Load(path string) (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	cfg := &AppConfig{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if token := os.Getenv("HA_ACCESS_TOKEN"); token != "" {
		cfg.HomeAssistant.AccessToken = token
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		cfg.Environment = env
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}
	cfg.Environment = strings.ToLower(cfg.Environment)
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.CronSpec == "" {
		cfg.CronSpec = "0 9 * * *" // Default: 9:00 AM daily
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) validate() error {
	if c.HomeAssistant.URL == "" {
		return fmt.Errorf("home_assistant.url is not set")
	}
	if c.HomeAssistant.AccessToken == "" {
		return fmt.Errorf("home_assistant.access_token is not set (config file or HA_ACCESS_TOKEN)")
	}
	if c.HomeAssistant.EntityID == "" {
		return fmt.Errorf("home_assistant.entity_id is not set")
	}
	if len(c.Rules) == 0 {
		return fmt.Errorf("no rules configured")
	}
	for i, r := range c.Rules {
		if r.State == "" {
			return fmt.Errorf("rules[%d]: state is not set", i)
		}
		if r.WebhookURL == "" {
			return fmt.Errorf("rules[%d] (%s): webhook_url is not set", i, r.State)
		}
		if r.Message == "" {
			return fmt.Errorf("rules[%d] (%s): message is not set", i, r.State)
		}
	}
	if c.Summary != nil && c.Summary.WebhookURL == "" {
		return fmt.Errorf("summary.webhook_url is not set")
	}
	return nil
}
