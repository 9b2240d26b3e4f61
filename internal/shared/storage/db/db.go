package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver

	"benefitflow-backend/internal/shared/telemetry"
)

// Options controls database pool and connectivity behavior.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// Strategy is one connection attempt configuration. Strategies are tried in
// order, first success wins.
type Strategy struct {
	Name    string
	SSLMode string
}

// DefaultStrategies returns the fixed ladder: plain, secured, secured with
// relaxed certificate verification.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: "plain", SSLMode: "disable"},
		{Name: "secured", SSLMode: "verify-full"},
		{Name: "secured-relaxed", SSLMode: "require"},
	}
}

// DefaultServerOptions returns defaults for long-running server processes.
func DefaultServerOptions() Options {
	return Options{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxIdleTime: 2 * time.Minute,
		ConnMaxLifetime: time.Hour,
		PingTimeout:     5 * time.Second,
	}
}

// DefaultMigrateOptions returns defaults for short-lived CLI migrations.
func DefaultMigrateOptions() Options {
	return Options{
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxIdleTime: 2 * time.Minute,
		ConnMaxLifetime: time.Hour,
		PingTimeout:     5 * time.Second,
	}
}

// OptionsFromEnv overrides defaults with DB_* env vars if present.
func OptionsFromEnv(defaults Options) Options {
	opts := defaults
	if v, ok := readEnvInt("DB_MAX_OPEN_CONNS"); ok {
		opts.MaxOpenConns = v
	}
	if v, ok := readEnvInt("DB_MAX_IDLE_CONNS"); ok {
		opts.MaxIdleConns = v
	}
	if v, ok := readEnvDuration("DB_CONN_MAX_LIFETIME"); ok {
		opts.ConnMaxLifetime = v
	}
	if v, ok := readEnvDuration("DB_CONN_MAX_IDLE_TIME"); ok {
		opts.ConnMaxIdleTime = v
	}
	if v, ok := readEnvDuration("DB_PING_TIMEOUT"); ok {
		opts.PingTimeout = v
	}
	return opts
}

// Connect opens a *sql.DB using the provided DATABASE_URL, walking the
// strategy ladder until one attempt verifies connectivity. The returned
// *sql.DB is opened once at process start and shared by all callers.
func Connect(ctx context.Context, databaseURL string, opts Options, strategies []Strategy) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}

	pingTimeout := opts.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}

	var attemptErrs []error
	for _, strat := range strategies {
		dsn, err := withSSLMode(databaseURL, strat.SSLMode)
		if err != nil {
			return nil, fmt.Errorf("parse database url: %w", err)
		}

		conn, err := sql.Open("pgx", dsn)
		if err != nil {
			attemptErrs = append(attemptErrs, fmt.Errorf("%s: open: %w", strat.Name, err))
			continue
		}
		applyOptions(conn, opts)

		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err = conn.PingContext(pingCtx)
		cancel()
		if err != nil {
			conn.Close()
			attemptErrs = append(attemptErrs, fmt.Errorf("%s: ping: %w", strat.Name, err))
			telemetry.Info("db.connect.attempt_failed", map[string]any{
				"strategy": strat.Name,
				"error":    err.Error(),
			})
			continue
		}

		telemetry.Info("db.connect", map[string]any{"strategy": strat.Name})
		return conn, nil
	}

	return nil, fmt.Errorf("all connection strategies exhausted: %w", errors.Join(attemptErrs...))
}

func withSSLMode(databaseURL, mode string) (string, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("sslmode", mode)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func applyOptions(db *sql.DB, opts Options) {
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 10
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = 5
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = time.Hour
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	if opts.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}
}

func readEnvInt(key string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return val, true
}

func readEnvDuration(key string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return val, true
}
