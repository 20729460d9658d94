// Package config defines the configuration structures for the platform.  No
// I/O or parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/medequity/pharmarisk/internal/application/alerting"
	"github.com/medequity/pharmarisk/internal/application/approval"
	"github.com/medequity/pharmarisk/internal/application/cliff"
	"github.com/medequity/pharmarisk/internal/application/risk"
	"github.com/medequity/pharmarisk/internal/infrastructure/database/postgres"
	"github.com/medequity/pharmarisk/internal/infrastructure/database/redis"
	"github.com/medequity/pharmarisk/internal/infrastructure/monitoring/logging"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// KafkaConfig holds the broker settings shared by producer and consumer.
type KafkaConfig struct {
	Brokers      []string      `mapstructure:"brokers"`
	GroupID      string        `mapstructure:"group_id"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// AnalyticsConfig groups the scoring parameters handed to the analysis
// components.
type AnalyticsConfig struct {
	Risk     risk.Config     `mapstructure:"risk"`
	Approval approval.Config `mapstructure:"approval"`
	Cliff    cliff.Config    `mapstructure:"cliff"`
	Alerting alerting.Config `mapstructure:"alerting"`

	// ResultTTL bounds how long a memoized analysis stays valid.
	ResultTTL time.Duration `mapstructure:"result_ttl"`
}

// Config is the root configuration for every binary.
type Config struct {
	Server    ServerConfig      `mapstructure:"server"`
	Database  postgres.Config   `mapstructure:"database"`
	Redis     redis.Config      `mapstructure:"redis"`
	Kafka     KafkaConfig       `mapstructure:"kafka"`
	Log       logging.LogConfig `mapstructure:"log"`
	Analytics AnalyticsConfig   `mapstructure:"analytics"`

	// MigrationPath is the golang-migrate source URL.
	MigrationPath string `mapstructure:"migration_path"`
}

// Validate rejects configurations that cannot produce a working process.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode %q must be debug, release, or test", c.Server.Mode)
	}
	if c.Analytics.Cliff.HorizonYears < 0 {
		return fmt.Errorf("analytics.cliff.horizon_years must not be negative")
	}
	if f := c.Analytics.Cliff.GenericErosionFactor; f < 0 || f > 1 {
		return fmt.Errorf("analytics.cliff.generic_erosion_factor %v outside [0,1]", f)
	}
	if r := c.Analytics.Approval.BaseRate; r < 0 || r > 1 {
		return fmt.Errorf("analytics.approval.base_rate %v outside [0,1]", r)
	}
	return nil
}
