package bench

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	attempts map[string]int
	failures map[string]int
	skipped  []string
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{attempts: map[string]int{}, failures: map[string]int{}}
}

func (o *recordingObserver) ObserveAttempt(def QueryDef, r QueryResult) {
	o.attempts[def.Name]++
	if r.Err != nil {
		o.failures[def.Name]++
	}
}

func (o *recordingObserver) ObserveSkip(def QueryDef, _ error) {
	o.skipped = append(o.skipped, def.Name)
}

func newMock(t *testing.T) (*Runner, sqlmock.Sqlmock, Querier, *test.Hook) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log, hook := test.NewNullLogger()
	return NewRunner(3, log), mock, db, hook
}

func rows(n int) *sqlmock.Rows {
	r := sqlmock.NewRows([]string{"id"})
	for i := 0; i < n; i++ {
		r.AddRow(i + 1)
	}
	return r
}

func TestRunner_RunsEveryIteration(t *testing.T) {
	runner, mock, db, _ := newMock(t)
	def := QueryDef{Name: "Simple SELECT", Query: "SELECT * FROM customers LIMIT 1000;", Category: "Basic"}

	for i := 0; i < 3; i++ {
		mock.ExpectQuery(def.Query).WillReturnRows(rows(4))
	}

	results := runner.Run(context.Background(), db, []QueryDef{def})
	require.NoError(t, mock.ExpectationsWereMet())
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, "Simple SELECT", res.Name)
	assert.Equal(t, 3, res.Iterations)
	assert.Equal(t, 0, res.Errors)
	assert.Equal(t, 4.0, res.RowCount)
	assert.LessOrEqual(t, res.MinTime, res.AvgTime)
	assert.LessOrEqual(t, res.AvgTime, res.MaxTime)
}

func TestRunner_SkipsOptionalQueryFailingTrial(t *testing.T) {
	runner, mock, db, hook := newMock(t)
	obs := newRecordingObserver()
	runner.Observer = obs

	fts := QueryDef{Name: "Full Text Search", Query: "SELECT fts", Optional: true}
	count := QueryDef{Name: "COUNT", Query: "SELECT COUNT(*) FROM products;"}

	mock.ExpectQuery(fts.Query).WillReturnError(errors.New("Can't find FULLTEXT index"))
	for i := 0; i < 3; i++ {
		mock.ExpectQuery(count.Query).WillReturnRows(rows(1))
	}

	results := runner.Run(context.Background(), db, []QueryDef{fts, count})
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, results, 1)
	assert.Equal(t, "COUNT", results[0].Name)
	assert.Equal(t, []string{"Full Text Search"}, obs.skipped)
	assert.Equal(t, 0, obs.attempts["Full Text Search"])
	assert.Equal(t, 3, obs.attempts["COUNT"])

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["query"] == "Full Text Search" {
			warned = true
		}
	}
	assert.True(t, warned, "expected a skip warning")
}

func TestRunner_OptionalTrialIsNotTimed(t *testing.T) {
	runner, mock, db, _ := newMock(t)
	runner.Iterations = 2
	view := QueryDef{Name: "View Query", Query: "SELECT * FROM product_sales_summary;", Optional: true}

	// trial + two iterations
	for i := 0; i < 3; i++ {
		mock.ExpectQuery(view.Query).WillReturnRows(rows(2))
	}

	results := runner.Run(context.Background(), db, []QueryDef{view})
	require.NoError(t, mock.ExpectationsWereMet())
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].Iterations)
}

func TestRunner_StopsAtFirstFailure(t *testing.T) {
	runner, mock, db, _ := newMock(t)
	obs := newRecordingObserver()
	runner.Observer = obs
	def := QueryDef{Name: "Aggregation", Query: "SELECT SUM(total_amount) FROM orders;"}

	mock.ExpectQuery(def.Query).WillReturnRows(rows(5))
	mock.ExpectQuery(def.Query).WillReturnError(errors.New("deadlock"))

	results := runner.Run(context.Background(), db, []QueryDef{def})
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Iterations)
	assert.Equal(t, 1, results[0].Errors)
	assert.Equal(t, 5.0, results[0].RowCount)
	assert.Equal(t, 2, obs.attempts["Aggregation"])
	assert.Equal(t, 1, obs.failures["Aggregation"])
}

func TestRunner_OmitsQueryWithoutSuccess(t *testing.T) {
	runner, mock, db, _ := newMock(t)
	def := QueryDef{Name: "Subquery", Query: "SELECT broken"}

	mock.ExpectQuery(def.Query).WillReturnError(errors.New("syntax error"))

	results := runner.Run(context.Background(), db, []QueryDef{def})
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, results)
}

func TestRunner_OptionalFailureMidLoopIsNotRecorded(t *testing.T) {
	runner, mock, db, _ := newMock(t)
	def := QueryDef{Name: "Stored Procedure", Query: "CALL proc();", Optional: true}

	mock.ExpectQuery(def.Query).WillReturnRows(rows(1))
	mock.ExpectQuery(def.Query).WillReturnRows(rows(1))
	mock.ExpectQuery(def.Query).WillReturnError(errors.New("gone away"))

	results := runner.Run(context.Background(), db, []QueryDef{def})
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Iterations)
	assert.Equal(t, 0, results[0].Errors)
}

func TestRunner_KeepsCatalogOrder(t *testing.T) {
	runner, mock, db, _ := newMock(t)
	runner.Iterations = 1
	catalog := []QueryDef{
		{Name: "b", Query: "SELECT 2"},
		{Name: "a", Query: "SELECT 1"},
		{Name: "c", Query: "SELECT 3"},
	}
	for _, def := range catalog {
		mock.ExpectQuery(def.Query).WillReturnRows(rows(1))
	}

	results := runner.Run(context.Background(), db, catalog)
	require.NoError(t, mock.ExpectationsWereMet())

	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"b", "a", "c"}, names)
}

func TestExecute_CountsAllResultSets(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("CALL report()").WillReturnRows(rows(2), rows(3))

	n, err := Execute(context.Background(), db, "CALL report()")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	require.NoError(t, mock.ExpectationsWereMet())
}
