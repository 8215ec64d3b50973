package pg

import (
	"context"
	"net"
	"net/url"
	"strconv"
	"time"

	"dbbench/bench"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const (
	DriverName  = "pgx"
	DefaultPort = 5432
)

func DSN(c bench.ConnConfig, sslmode string) string {
	if sslmode == "" {
		sslmode = "disable"
	}
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(port)),
		Path:   "/" + c.Database,
	}
	q := url.Values{}
	q.Set("sslmode", sslmode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Connect opens a database/sql pool over pgx capped at one connection.
func Connect(ctx context.Context, c bench.ConnConfig, sslmode string) (*sqlx.DB, error) {
	config, err := pgx.ParseConfig(DSN(c, sslmode))
	if err != nil {
		return nil, errors.Wrap(err, "parse postgres dsn")
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	config.ConnectTimeout = timeout

	db := sqlx.NewDb(stdlib.OpenDB(*config), DriverName)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}
	return db, nil
}
