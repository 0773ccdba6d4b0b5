package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
)

// Pool and retry defaults, used for zero Config fields
const (
	DefaultMaxOpenConns    = 25
	DefaultMaxIdleConns    = 5
	DefaultConnMaxLifetime = 5 * time.Minute
	DefaultConnectAttempts = 5
	DefaultRetryDelay      = time.Second
)

// Config holds database configuration
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// ConnectAttempts bounds the startup pings; the wait before attempt n is n-1 times RetryDelay
	ConnectAttempts int
	RetryDelay      time.Duration
}

// DSN builds the go-sql-driver/mysql data source name
func (c Config) DSN() string {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	mc.DBName = c.Database
	mc.ParseTime = true
	mc.Collation = "utf8mb4_unicode_ci"
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

// Open connects to MySQL, pinging until the server answers, the attempts run
// out or ctx is done. The returned pool is configured from cfg.
func Open(ctx context.Context, cfg Config, log logrus.FieldLogger) (*sql.DB, error) {
	sqlDB, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	configurePool(sqlDB, cfg)

	attempts := cfg.ConnectAttempts
	if attempts <= 0 {
		attempts = DefaultConnectAttempts
	}
	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = DefaultRetryDelay
	}

	for attempt := 1; ; attempt++ {
		err = sqlDB.PingContext(ctx)
		if err == nil {
			return sqlDB, nil
		}
		if ctx.Err() != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("database connect aborted: %w", ctx.Err())
		}
		if attempt == attempts {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to ping database after %d attempts: %w", attempts, err)
		}

		wait := delay * time.Duration(attempt)
		log.WithFields(logrus.Fields{
			"attempt": attempt,
			"of":      attempts,
			"addr":    net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			"retry":   wait.String(),
		}).WithError(err).Warn("Database not reachable, retrying")

		select {
		case <-ctx.Done():
			sqlDB.Close()
			return nil, fmt.Errorf("database connect aborted: %w", ctx.Err())
		case <-time.After(wait):
		}
	}
}

func configurePool(sqlDB *sql.DB, cfg Config) {
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = DefaultMaxOpenConns
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = DefaultMaxIdleConns
	}
	lifetime := cfg.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = DefaultConnMaxLifetime
	}

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(lifetime)
}
