package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dbbench/bench"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var generated = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func sampleResults() []bench.Result {
	return []bench.Result{
		{
			Name: "Beta", Description: "fast one", Query: "SELECT 1", Category: "Basic",
			AvgTime: 50 * time.Millisecond, MinTime: 40 * time.Millisecond, MaxTime: 60 * time.Millisecond,
			RowCount: 10, Iterations: 3, Suggestions: []string{"beta tip"},
		},
		{
			Name: "Alpha", Description: "slow one", Query: "SELECT * FROM big", Category: "Advanced",
			AvgTime: 1500 * time.Millisecond, MinTime: time.Second, MaxTime: 2 * time.Second,
			RowCount: 1000, Iterations: 3, Suggestions: []string{"alpha tip"},
		},
		{
			Name: "Gamma", Description: "medium one", Query: "SELECT 2", Category: "Basic",
			AvgTime: 200 * time.Millisecond, MinTime: 200 * time.Millisecond, MaxTime: 200 * time.Millisecond,
			RowCount: 2.5, Iterations: 3,
		},
	}
}

func sampleStats() bench.DBStats {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return bench.DBStats{
		Tables: []bench.TableStat{
			{Name: "orders", Rows: 5000, DataBytes: 1024, IndexBytes: 512, Created: &created},
			{Name: "customers", Rows: 100, DataBytes: 1 << 20},
		},
		Indexes: []bench.IndexStat{
			{Table: "orders", Index: "idx_b", Column: "y", Seq: 2},
			{Table: "orders", Index: "idx_b", Column: "x", Seq: 1},
			{Table: "customers", Index: "PRIMARY", Column: "customer_id", Seq: 1, Unique: true, Primary: true},
		},
		Variables: bench.ServerVars{BufferPoolSize: 128 << 20, MaxConnections: 151},
	}
}

func sampleMeta() Meta {
	return Meta{Title: "MySQL Database Benchmark Report", Database: "ecommerce_demo", Iterations: 3, GeneratedAt: generated, RunID: "run-1"}
}

func TestFormatSize(t *testing.T) {
	tt := []struct {
		in   int64
		want string
	}{
		{0, "0.00 B"},
		{1023, "1023.00 B"},
		{1536, "1.50 KB"},
		{1 << 20, "1.00 MB"},
		{5 << 30, "5.00 GB"},
		{1 << 40, "1.00 TB"},
		{1 << 50, "1024.00 TB"},
	}
	for _, tc := range tt {
		assert.Equal(t, tc.want, FormatSize(tc.in), "%d", tc.in)
	}
}

func TestBuild_Ordering(t *testing.T) {
	rep := Build(sampleResults(), sampleStats(), sampleMeta())

	require.Len(t, rep.Overview, 3)
	assert.Equal(t, "Alpha", rep.Overview[0].Name)
	assert.Equal(t, "Gamma", rep.Overview[1].Name)
	assert.Equal(t, "Beta", rep.Overview[2].Name)
	assert.Equal(t, bench.BandSlow, rep.Overview[0].Band)
	assert.Equal(t, bench.BandMedium, rep.Overview[1].Band)
	assert.Equal(t, bench.BandFast, rep.Overview[2].Band)

	require.Len(t, rep.Categories, 2)
	assert.Equal(t, "Basic", rep.Categories[0].Name)
	assert.Equal(t, "Gamma", rep.Categories[0].Rows[0].Name)
	assert.Equal(t, "Beta", rep.Categories[0].Rows[1].Name)
	assert.Equal(t, "Advanced", rep.Categories[1].Name)

	assert.Equal(t, []string{"Alpha", "Gamma", "Beta"}, rep.Chart.Labels)
	assert.Equal(t, []float64{1.5, 0.2, 0.05}, rep.Chart.Data)
	assert.Equal(t, "rgba(255, 99, 132, 0.2)", rep.Chart.Backgrounds[0])
	assert.Equal(t, "rgb(75, 192, 192)", rep.Chart.Borders[2])

	assert.Equal(t, "customers", rep.Tables[0].Name)
	assert.Equal(t, "N/A", rep.Tables[0].Created)
	assert.Equal(t, "2024-01-02 03:04:05", rep.Tables[1].Created)
	assert.Equal(t, "1.50 KB", rep.Tables[1].TotalSize)

	require.Len(t, rep.Indexes, 3)
	assert.Equal(t, "Primary Key", rep.Indexes[0].Kind)
	assert.Equal(t, "x", rep.Indexes[1].Column)
	assert.Equal(t, "y", rep.Indexes[2].Column)
}

func TestBuild_Summary(t *testing.T) {
	rep := Build(sampleResults(), sampleStats(), sampleMeta())

	assert.Equal(t, 3, rep.Summary.TotalQueries)
	assert.Equal(t, "Alpha", rep.Summary.Slowest)
	assert.Equal(t, "Beta", rep.Summary.Fastest)
	assert.Equal(t, 2, rep.Summary.TotalTables)
	assert.Equal(t, int64(1<<20+1536), rep.Summary.TotalBytes)
	assert.Equal(t, "128.00 MB", rep.Summary.BufferPoolSize)
	assert.Equal(t, "0.00 B", rep.Summary.QueryCacheSize)
}

func TestBuild_Empty(t *testing.T) {
	rep := Build(nil, bench.DBStats{}, Meta{GeneratedAt: generated})

	assert.Equal(t, DefaultTitle, rep.Title)
	assert.Equal(t, 0, rep.Summary.TotalQueries)
	assert.Equal(t, NotAvail, rep.Summary.Slowest)
	assert.Equal(t, NotAvail, rep.Summary.Fastest)
	assert.Equal(t, "0.00 B", rep.Summary.TotalSize)
	assert.NotNil(t, rep.Chart.Labels)

	var buf bytes.Buffer
	require.NoError(t, rep.Render(&buf))
	assert.Contains(t, buf.String(), "labels: []")
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleResults(), sampleStats(), sampleMeta()))
	html := buf.String()

	assert.Contains(t, html, "<title>MySQL Database Benchmark Report</title>")
	assert.Contains(t, html, "https://cdn.jsdelivr.net/npm/chart.js")
	assert.Contains(t, html, "Report generated on 2025-03-14 09:26:53")
	assert.Contains(t, html, "<h3>Basic Queries</h3>")
	assert.Contains(t, html, `<tr class="slow">`)
	assert.Contains(t, html, "<td>1.5000</td>")
	assert.Contains(t, html, "<td>2</td>")
	assert.Contains(t, html, `<div class="suggestion">alpha tip</div>`)
	assert.Contains(t, html, bench.GeneralSuggestions[0])
	assert.Contains(t, html, "Run run-1")

	detail := html[strings.Index(html, "Detailed Query Analysis"):]
	alpha := strings.Index(detail, "<h3>Alpha</h3>")
	beta := strings.Index(detail, "<h3>Beta</h3>")
	require.NotEqual(t, -1, alpha)
	require.NotEqual(t, -1, beta)
	assert.Less(t, alpha, beta)
}

func TestRender_OmittedQueriesAbsent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleResults()[:1], bench.DBStats{}, sampleMeta()))

	assert.Contains(t, buf.String(), "Beta")
	assert.NotContains(t, buf.String(), "Alpha")
	assert.NotContains(t, buf.String(), "Advanced Queries")
}

func TestRender_EscapesQueryText(t *testing.T) {
	results := []bench.Result{{Name: "<b>x</b>", Query: "SELECT '<script>'", Category: "Custom", AvgTime: time.Millisecond}}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, results, bench.DBStats{}, sampleMeta()))

	assert.NotContains(t, buf.String(), "<b>x</b>")
	assert.NotContains(t, buf.String(), "SELECT '<script>'")
}

func TestRender_Idempotent(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, Render(&a, sampleResults(), sampleStats(), sampleMeta()))
	require.NoError(t, Render(&b, sampleResults(), sampleStats(), sampleMeta()))
	assert.Equal(t, a.String(), b.String())
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.html")
	require.NoError(t, WriteFile(path, sampleResults(), sampleStats(), sampleMeta()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleResults(), sampleStats(), sampleMeta()))
	assert.Equal(t, buf.String(), string(data))
}
