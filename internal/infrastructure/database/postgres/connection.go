// Package postgres provides the connection pool and schema migrations.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medequity/pharmarisk/internal/infrastructure/monitoring/logging"
)

// Config holds the connection parameters.
type Config struct {
	Host     string `yaml:"host" json:"host" mapstructure:"host"`
	Port     int    `yaml:"port" json:"port" mapstructure:"port"`
	User     string `yaml:"user" json:"user" mapstructure:"user"`
	Password string `yaml:"password" json:"password" mapstructure:"password"`
	Database string `yaml:"database" json:"database" mapstructure:"database"`
	SSLMode  string `yaml:"ssl_mode" json:"ssl_mode" mapstructure:"ssl_mode"`

	MaxConns        int32         `yaml:"max_conns" json:"max_conns" mapstructure:"max_conns"`
	MinConns        int32         `yaml:"min_conns" json:"min_conns" mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" json:"max_conn_lifetime" mapstructure:"max_conn_lifetime"`
}

// DSN renders the connection string.
func (c Config) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, sslMode)
}

// NewPool builds, configures, and pings a pgx connection pool.
func NewPool(ctx context.Context, cfg Config, logger logging.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	if logger != nil {
		logger.Info("postgres pool ready",
			logging.String("host", cfg.Host),
			logging.String("database", cfg.Database))
	}
	return pool, nil
}
