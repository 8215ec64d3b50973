package main

import (
	"context"

	"dbbench/bench"
	"dbbench/config"
	"dbbench/my"
	"dbbench/pg"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// dialect bundles what differs between the supported servers.
type dialect struct {
	Label       string
	DefaultPort int
	Catalog     []bench.QueryDef
	Connect     func(ctx context.Context, c bench.ConnConfig) (*sqlx.DB, error)
	Stats       func(db sqlx.QueryerContext) bench.StatsSource
}

func (d dialect) Title() string {
	return d.Label + " Database Benchmark Report"
}

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case config.DriverMySQL:
		return dialect{
			Label:       "MySQL",
			DefaultPort: my.DefaultPort,
			Catalog:     my.Queries,
			Connect:     my.Connect,
			Stats:       func(db sqlx.QueryerContext) bench.StatsSource { return my.NewStats(db) },
		}, nil
	case config.DriverPostgres:
		return dialect{
			Label:       "PostgreSQL",
			DefaultPort: pg.DefaultPort,
			Catalog:     pg.Queries,
			Connect: func(ctx context.Context, c bench.ConnConfig) (*sqlx.DB, error) {
				return pg.Connect(ctx, c, "")
			},
			Stats: func(db sqlx.QueryerContext) bench.StatsSource { return pg.NewStats(db) },
		}, nil
	default:
		return dialect{}, errors.Wrapf(config.ErrUnknownDriver, "%q", driver)
	}
}
