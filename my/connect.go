package my

import (
	"context"
	"net"
	"strconv"
	"time"

	"dbbench/bench"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const (
	DriverName  = "mysql"
	DefaultPort = 3306
)

func DSN(c bench.ConnConfig) string {
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}

	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(port))
	cfg.DBName = c.Database
	cfg.ParseTime = true
	cfg.Timeout = c.Timeout
	return cfg.FormatDSN()
}

// Connect opens a pool capped at one connection and pings it once.
func Connect(ctx context.Context, c bench.ConnConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open(DriverName, DSN(c))
	if err != nil {
		return nil, errors.Wrap(err, "open mysql")
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping mysql")
	}
	return db, nil
}
