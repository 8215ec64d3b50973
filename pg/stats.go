package pg

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"dbbench/bench"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const (
	// PostgreSQL keeps no creation or modification time per table.
	tablesQuery = `
		SELECT
			c.relname AS table_name,
			GREATEST(c.reltuples, 0)::bigint AS table_rows,
			pg_relation_size(c.oid) AS data_length,
			pg_indexes_size(c.oid) AS index_length
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = current_schema()
			AND c.relkind IN ('r', 'p')`

	indexesQuery = `
		SELECT
			t.relname AS table_name,
			i.relname AS index_name,
			COALESCE(a.attname, '') AS column_name,
			k.ord AS seq_in_index,
			ix.indisunique AS is_unique,
			ix.indisprimary AS is_primary
		FROM pg_index ix
		JOIN pg_class t ON t.oid = ix.indrelid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		CROSS JOIN LATERAL unnest(ix.indkey::smallint[]) WITH ORDINALITY AS k(attnum, ord)
		LEFT JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = k.attnum
		WHERE n.nspname = current_schema()
		ORDER BY table_name, index_name, seq_in_index`

	variablesQuery = `
		SELECT name, setting, COALESCE(unit, '') AS unit
		FROM pg_settings
		WHERE name IN ('shared_buffers', 'max_connections')`
)

type tableRow struct {
	Name        string        `db:"table_name"`
	Rows        sql.NullInt64 `db:"table_rows"`
	DataLength  sql.NullInt64 `db:"data_length"`
	IndexLength sql.NullInt64 `db:"index_length"`
}

type indexRow struct {
	Table   string `db:"table_name"`
	Index   string `db:"index_name"`
	Column  string `db:"column_name"`
	Seq     int    `db:"seq_in_index"`
	Unique  bool   `db:"is_unique"`
	Primary bool   `db:"is_primary"`
}

type settingRow struct {
	Name    string `db:"name"`
	Setting string `db:"setting"`
	Unit    string `db:"unit"`
}

// Stats reads metadata from the system catalogs and pg_settings.
type Stats struct {
	DB sqlx.QueryerContext
}

func NewStats(db sqlx.QueryerContext) *Stats {
	return &Stats{DB: db}
}

func (s *Stats) Tables(ctx context.Context) ([]bench.TableStat, error) {
	var rows []tableRow
	if err := sqlx.SelectContext(ctx, s.DB, &rows, tablesQuery); err != nil {
		return nil, errors.Wrap(err, "select tables")
	}

	out := make([]bench.TableStat, 0, len(rows))
	for _, r := range rows {
		out = append(out, bench.TableStat{
			Name:       r.Name,
			Rows:       r.Rows.Int64,
			DataBytes:  r.DataLength.Int64,
			IndexBytes: r.IndexLength.Int64,
		})
	}
	return out, nil
}

func (s *Stats) Indexes(ctx context.Context) ([]bench.IndexStat, error) {
	var rows []indexRow
	if err := sqlx.SelectContext(ctx, s.DB, &rows, indexesQuery); err != nil {
		return nil, errors.Wrap(err, "select indexes")
	}

	out := make([]bench.IndexStat, 0, len(rows))
	for _, r := range rows {
		out = append(out, bench.IndexStat(r))
	}
	return out, nil
}

// Variables maps shared_buffers onto the buffer pool figure. PostgreSQL has
// no query cache, so QueryCacheSize stays zero.
func (s *Stats) Variables(ctx context.Context) (bench.ServerVars, error) {
	var rows []settingRow
	if err := sqlx.SelectContext(ctx, s.DB, &rows, variablesQuery); err != nil {
		return bench.ServerVars{}, errors.Wrap(err, "select settings")
	}

	var vars bench.ServerVars
	for _, r := range rows {
		n, err := settingValue(r.Setting, r.Unit)
		if err != nil {
			return bench.ServerVars{}, errors.Wrapf(err, "setting %s", r.Name)
		}
		switch r.Name {
		case "shared_buffers":
			vars.BufferPoolSize = n
		case "max_connections":
			vars.MaxConnections = n
		}
	}
	return vars, nil
}

var unitBytes = map[string]int64{
	"B":  1,
	"kB": 1 << 10,
	"MB": 1 << 20,
	"GB": 1 << 30,
	"TB": 1 << 40,
}

// settingValue applies a pg_settings unit such as "8kB" to a raw setting.
func settingValue(setting, unit string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(setting), 10, 64)
	if err != nil {
		return 0, err
	}
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return n, nil
	}

	i := 0
	for i < len(unit) && unit[i] >= '0' && unit[i] <= '9' {
		i++
	}
	mult := int64(1)
	if i > 0 {
		mult, err = strconv.ParseInt(unit[:i], 10, 64)
		if err != nil {
			return 0, err
		}
	}
	size, ok := unitBytes[unit[i:]]
	if !ok {
		return 0, errors.Errorf("unknown unit %q", unit)
	}
	return n * mult * size, nil
}
