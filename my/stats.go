package my

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"dbbench/bench"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// Columns are aliased in lower case: MySQL 8 reports information_schema
// column labels in upper case.
const (
	tablesQuery = `
		SELECT
			table_name AS table_name,
			table_rows AS table_rows,
			data_length AS data_length,
			index_length AS index_length,
			data_free AS data_free,
			create_time AS create_time,
			update_time AS update_time
		FROM
			information_schema.tables
		WHERE
			table_schema = DATABASE()`

	indexesQuery = `
		SELECT
			table_name AS table_name,
			index_name AS index_name,
			column_name AS column_name,
			seq_in_index AS seq_in_index,
			non_unique AS non_unique
		FROM
			information_schema.statistics
		WHERE
			table_schema = DATABASE()
		ORDER BY
			table_name, index_name, seq_in_index`

	variablesQuery = `SHOW VARIABLES WHERE Variable_name IN ('innodb_buffer_pool_size', 'max_connections', 'query_cache_size')`
)

type tableRow struct {
	Name        string        `db:"table_name"`
	Rows        sql.NullInt64 `db:"table_rows"`
	DataLength  sql.NullInt64 `db:"data_length"`
	IndexLength sql.NullInt64 `db:"index_length"`
	DataFree    sql.NullInt64 `db:"data_free"`
	CreateTime  sql.NullTime  `db:"create_time"`
	UpdateTime  sql.NullTime  `db:"update_time"`
}

type indexRow struct {
	Table     string         `db:"table_name"`
	Index     string         `db:"index_name"`
	Column    sql.NullString `db:"column_name"`
	Seq       int            `db:"seq_in_index"`
	NonUnique int            `db:"non_unique"`
}

type variableRow struct {
	Name  string `db:"Variable_name"`
	Value string `db:"Value"`
}

// Stats reads metadata from information_schema and SHOW VARIABLES.
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
		t := bench.TableStat{
			Name:       r.Name,
			Rows:       r.Rows.Int64,
			DataBytes:  r.DataLength.Int64,
			IndexBytes: r.IndexLength.Int64,
			FreeBytes:  r.DataFree.Int64,
		}
		if r.CreateTime.Valid {
			created := r.CreateTime.Time
			t.Created = &created
		}
		if r.UpdateTime.Valid {
			updated := r.UpdateTime.Time
			t.Updated = &updated
		}
		out = append(out, t)
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
		out = append(out, bench.IndexStat{
			Table:   r.Table,
			Index:   r.Index,
			Column:  r.Column.String,
			Seq:     r.Seq,
			Unique:  r.NonUnique == 0,
			Primary: r.Index == "PRIMARY",
		})
	}
	return out, nil
}

// Variables returns zero for a variable the server does not have, e.g.
// query_cache_size on MySQL 8.
func (s *Stats) Variables(ctx context.Context) (bench.ServerVars, error) {
	var rows []variableRow
	if err := sqlx.SelectContext(ctx, s.DB, &rows, variablesQuery); err != nil {
		return bench.ServerVars{}, errors.Wrap(err, "show variables")
	}

	var vars bench.ServerVars
	for _, r := range rows {
		n, err := strconv.ParseInt(strings.TrimSpace(r.Value), 10, 64)
		if err != nil {
			return bench.ServerVars{}, errors.Wrapf(err, "variable %s", r.Name)
		}
		switch strings.ToLower(r.Name) {
		case "innodb_buffer_pool_size":
			vars.BufferPoolSize = n
		case "max_connections":
			vars.MaxConnections = n
		case "query_cache_size":
			vars.QueryCacheSize = n
		}
	}
	return vars, nil
}
