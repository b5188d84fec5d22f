package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Connect opens a pooled Postgres handle and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string, log *zap.Logger) (*sql.DB, error) {
	log.Info("connecting to database", zap.String("url", safeDatabaseURL(databaseURL)))

	if err := checkSSLMode(databaseURL); err != nil {
		return nil, fmt.Errorf("failed to configure SSL: %w", err)
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	log.Info("database connection established")
	return db, nil
}

// safeDatabaseURL strips the password from databaseURL for logging.
func safeDatabaseURL(databaseURL string) string {
	parsed, err := url.Parse(databaseURL)
	if err != nil {
		return "(unparseable)"
	}

	safe := &url.URL{
		Scheme:   parsed.Scheme,
		Host:     parsed.Host,
		Path:     parsed.Path,
		RawQuery: parsed.RawQuery,
	}
	if parsed.User != nil && parsed.User.Username() != "" {
		safe.User = url.User(parsed.User.Username())
	}
	return safe.String()
}

// checkSSLMode rejects sslmode values lib/pq would fail on later, and modes
// that verify certificates without naming a root certificate.
func checkSSLMode(databaseURL string) error {
	parsed, err := url.Parse(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}

	query := parsed.Query()
	switch mode := query.Get("sslmode"); mode {
	case "", "disable", "require":
		return nil
	case "verify-ca", "verify-full":
		if query.Get("sslrootcert") == "" {
			return fmt.Errorf("sslrootcert is required for %s mode", mode)
		}
		if (query.Get("sslcert") == "") != (query.Get("sslkey") == "") {
			return fmt.Errorf("both sslcert and sslkey are required for mutual authentication")
		}
		return nil
	default:
		return fmt.Errorf("unsupported SSL mode: %s", mode)
	}
}
