package bench

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Querier is the single session every query runs on. *sql.DB, *sql.Conn
// and *sqlx.Conn all satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Observer is notified of every timed attempt and every skipped optional query.
type Observer interface {
	ObserveAttempt(def QueryDef, r QueryResult)
	ObserveSkip(def QueryDef, err error)
}

type Runner struct {
	Iterations int
	Log        logrus.FieldLogger
	Observer   Observer
}

func NewRunner(iterations int, log logrus.FieldLogger) *Runner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Runner{Iterations: iterations, Log: log}
}

// Run executes the catalog in order, one query at a time, and returns a
// Result for every query that succeeded at least once.
func (r *Runner) Run(ctx context.Context, q Querier, catalog []QueryDef) []Result {
	results := make([]Result, 0, len(catalog))
	for _, def := range catalog {
		res, ok := r.RunQuery(ctx, q, def)
		if ok {
			results = append(results, res)
		}
	}
	return results
}

// RunQuery benchmarks a single definition. The iteration loop stops at the
// first failed attempt.
func (r *Runner) RunQuery(ctx context.Context, q Querier, def QueryDef) (Result, bool) {
	log := r.Log.WithField("query", def.Name)
	log.Infof("Running benchmark: %s", def.Name)

	if def.Optional {
		if _, err := Execute(ctx, q, def.Query); err != nil {
			log.Warnf("Skipping optional query '%s': %v", def.Name, err)
			if r.Observer != nil {
				r.Observer.ObserveSkip(def, err)
			}
			return Result{}, false
		}
	}

	attempts := make([]QueryResult, 0, r.Iterations)
	for i := 0; i < r.Iterations; i++ {
		start := time.Now()
		rows, err := Execute(ctx, q, def.Query)
		attempt := QueryResult{At: start, Duration: time.Since(start), Rows: rows, Err: err}
		if r.Observer != nil {
			r.Observer.ObserveAttempt(def, attempt)
		}

		if err != nil {
			log.Errorf("Error executing query: %v", err)
			if !def.Optional {
				attempts = append(attempts, attempt)
			}
			break
		}

		attempts = append(attempts, attempt)
		log.Infof("Iteration %d: %.4f seconds, %d rows", i+1, attempt.Duration.Seconds(), rows)
	}

	return ComputeStats(def, attempts)
}

// Execute runs query and drains every result set, returning the number of
// rows read.
func Execute(ctx context.Context, q Querier, query string) (int, error) {
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return 0, errors.Wrap(err, "execute")
	}
	defer rows.Close()

	n := 0
	for {
		for rows.Next() {
			n++
		}
		if !rows.NextResultSet() {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return n, errors.Wrap(err, "read rows")
	}
	return n, nil
}
