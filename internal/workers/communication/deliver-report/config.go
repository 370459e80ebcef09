// internal/workers/communication/deliver-report/config.go
package deliverreport

import (
	"fmt"
	"time"

	"compare-workers/internal/common/config"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`
	EmailEnabled  bool          `mapstructure:"email_enabled"`
	SMSEnabled    bool          `mapstructure:"sms_enabled"`
	FromEmail     string        `mapstructure:"from_email"`
	Subject       string        `mapstructure:"subject"`
	AWSRegion     string        `mapstructure:"aws_region"`
	SMSSenderID   string        `mapstructure:"sms_sender_id"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       20 * time.Second,
		Subject:       "Your comparison result",
		AWSRegion:     "us-east-1",
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.EmailEnabled && c.FromEmail == "" {
		return fmt.Errorf("from_email is required when email delivery is enabled")
	}
	if (c.EmailEnabled || c.SMSEnabled) && c.AWSRegion == "" {
		return fmt.Errorf("aws_region is required")
	}
	return nil
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}
	if workerCfg, exists := appConfig.Workers[TaskType]; exists {
		cfg.Enabled = workerCfg.Enabled
		if workerCfg.MaxJobsActive > 0 {
			cfg.MaxJobsActive = workerCfg.MaxJobsActive
		}
		if workerCfg.Timeout > 0 {
			cfg.Timeout = config.GetDuration(workerCfg.Timeout)
		}
	}

	n := appConfig.Notifications
	cfg.EmailEnabled = n.Email.Enabled
	cfg.FromEmail = n.Email.FromEmail
	if n.Email.Subject != "" {
		cfg.Subject = n.Email.Subject
	}
	cfg.SMSEnabled = n.SMS.Enabled
	cfg.SMSSenderID = n.SMS.SenderID
	if n.AWS.Region != "" {
		cfg.AWSRegion = n.AWS.Region
	}
	return cfg
}
