package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	Access    AccessConfig    `yaml:"access"`
	Session   SessionConfig   `yaml:"session"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Log       LogConfig       `yaml:"log"`
	Web       WebConfig       `yaml:"web"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// SMTPConfig contains email service settings
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// AccessConfig contains the access-workflow settings
type AccessConfig struct {
	// OwnerEmail receives the approval-request notifications.
	OwnerEmail string `yaml:"owner_email"`
	// SiteBaseURL is the public base URL used to build approve/decline links.
	SiteBaseURL string `yaml:"site_base_url"`
	// PasswordTTLHours is how long an issued password stays valid.
	PasswordTTLHours int `yaml:"password_ttl_hours"`
	// RequestRetentionDays is how long requests are kept before purging.
	RequestRetentionDays int `yaml:"request_retention_days"`
	// MasterPasswordHash is an optional bcrypt hash of a bootstrap password
	// that always verifies. Empty disables it.
	MasterPasswordHash string `yaml:"master_password_hash"`
}

// SessionConfig contains gate session token settings
type SessionConfig struct {
	Secret   string `yaml:"secret"`
	TTLHours int    `yaml:"ttl_hours"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	Sweep string `yaml:"sweep"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// WebConfig contains static site settings
type WebConfig struct {
	StaticDir string `yaml:"static_dir"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// SMTP
	if val := os.Getenv("SMTP_HOST"); val != "" {
		c.SMTP.Host = val
	}
	if val := os.Getenv("SMTP_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.SMTP.Port)
	}
	if val := os.Getenv("SMTP_USER"); val != "" {
		c.SMTP.User = val
	}
	if val := os.Getenv("SMTP_PASSWORD"); val != "" {
		c.SMTP.Password = val
	}
	if val := os.Getenv("SMTP_FROM"); val != "" {
		c.SMTP.From = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Access
	if val := os.Getenv("OWNER_EMAIL"); val != "" {
		c.Access.OwnerEmail = val
	}
	if val := os.Getenv("SITE_BASE_URL"); val != "" {
		c.Access.SiteBaseURL = val
	}
	if val := os.Getenv("MASTER_PASSWORD_HASH"); val != "" {
		c.Access.MasterPasswordHash = val
	}

	// Session
	if val := os.Getenv("SESSION_SECRET"); val != "" {
		c.Session.Secret = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// SMTP validation
	if c.SMTP.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", c.SMTP.Port)
	}
	if c.SMTP.From == "" {
		return fmt.Errorf("SMTP from address is required")
	}

	// Access validation and defaults
	if c.Access.OwnerEmail == "" {
		return fmt.Errorf("owner email is required")
	}
	if c.Access.PasswordTTLHours == 0 {
		c.Access.PasswordTTLHours = 72
	}
	if c.Access.PasswordTTLHours < 0 {
		return fmt.Errorf("invalid password TTL: %d hours", c.Access.PasswordTTLHours)
	}
	if c.Access.RequestRetentionDays == 0 {
		c.Access.RequestRetentionDays = 7
	}
	if c.Access.RequestRetentionDays < 0 {
		return fmt.Errorf("invalid request retention: %d days", c.Access.RequestRetentionDays)
	}

	// Session validation and defaults
	if c.Session.Secret == "" {
		return fmt.Errorf("session secret is required")
	}
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("session secret must be at least 32 characters")
	}
	if c.Session.TTLHours == 0 {
		c.Session.TTLHours = 12
	}

	// Scheduler defaults
	if c.Scheduler.Sweep == "" {
		c.Scheduler.Sweep = "0 0 * * * *" // hourly
	}

	// Web defaults
	if c.Web.StaticDir == "" {
		c.Web.StaticDir = "web"
	}

	return nil
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
