// Package report turns benchmark results and database statistics into a
// self-contained HTML document.
package report

import (
	"bufio"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"dbbench/bench"

	"github.com/pkg/errors"
)

const (
	TimeLayout = "2006-01-02 15:04:05"
	NotAvail   = "N/A"

	DefaultTitle = "Database Benchmark Report"
)

//go:embed template.html
var templateHTML string

var tmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"secs": func(d time.Duration) string { return fmt.Sprintf("%.4f", d.Seconds()) },
	"rows": func(f float64) int64 { return int64(f) },
}).Parse(templateHTML))

var bandColors = map[string][2]string{
	bench.BandSlow:   {"rgba(255, 99, 132, 0.2)", "rgb(255, 99, 132)"},
	bench.BandMedium: {"rgba(255, 205, 86, 0.2)", "rgb(255, 205, 86)"},
	bench.BandFast:   {"rgba(75, 192, 192, 0.2)", "rgb(75, 192, 192)"},
}

// Meta carries everything about a run that is not measured, so that Build
// stays a pure function of its input.
type Meta struct {
	Title       string
	Database    string
	Iterations  int
	GeneratedAt time.Time
	RunID       string
}

type Row struct {
	bench.Result
	Band string
}

type Category struct {
	Name string
	Rows []Row
}

type TableRow struct {
	Name      string
	Rows      int64
	DataSize  string
	IndexSize string
	TotalSize string
	Created   string
	Updated   string
}

type IndexRow struct {
	Table  string
	Index  string
	Column string
	Seq    int
	Kind   string
}

type Summary struct {
	TotalQueries   int
	Slowest        string
	Fastest        string
	TotalTables    int
	TotalSize      string
	TotalBytes     int64
	BufferPoolSize string
	MaxConnections int64
	QueryCacheSize string
}

type Chart struct {
	Labels      []string
	Data        []float64
	Backgrounds []string
	Borders     []string
}

type Report struct {
	Meta
	Generated  string
	Summary    Summary
	Overview   []Row
	Categories []Category
	Tables     []TableRow
	Indexes    []IndexRow
	General    []string
	Chart      Chart
}

// Build assembles the report view. Overview rows are sorted slowest first;
// categories keep the order in which they first appear in results.
func Build(results []bench.Result, stats bench.DBStats, meta Meta) Report {
	overview := make([]Row, 0, len(results))
	for _, r := range results {
		overview = append(overview, Row{Result: r, Band: bench.Band(r.AvgTime)})
	}
	sortSlowestFirst(overview)

	if meta.Title == "" {
		meta.Title = DefaultTitle
	}

	rep := Report{
		Meta:       meta,
		Generated:  meta.GeneratedAt.Format(TimeLayout),
		Overview:   overview,
		Categories: groupByCategory(results),
		Tables:     tableRows(stats.Tables),
		Indexes:    indexRows(stats.Indexes),
		General:    bench.GeneralSuggestions,
	}

	var total int64
	for _, t := range stats.Tables {
		total += t.TotalBytes()
	}

	rep.Summary = Summary{
		TotalQueries:   len(results),
		Slowest:        NotAvail,
		Fastest:        NotAvail,
		TotalTables:    len(stats.Tables),
		TotalSize:      FormatSize(total),
		TotalBytes:     total,
		BufferPoolSize: FormatSize(stats.Variables.BufferPoolSize),
		MaxConnections: stats.Variables.MaxConnections,
		QueryCacheSize: FormatSize(stats.Variables.QueryCacheSize),
	}
	if len(overview) > 0 {
		rep.Summary.Slowest = overview[0].Name
		rep.Summary.Fastest = overview[len(overview)-1].Name
	}

	rep.Chart = Chart{
		Labels:      make([]string, 0, len(overview)),
		Data:        make([]float64, 0, len(overview)),
		Backgrounds: make([]string, 0, len(overview)),
		Borders:     make([]string, 0, len(overview)),
	}
	for _, r := range overview {
		colors := bandColors[r.Band]
		rep.Chart.Labels = append(rep.Chart.Labels, r.Name)
		rep.Chart.Data = append(rep.Chart.Data, r.AvgTime.Seconds())
		rep.Chart.Backgrounds = append(rep.Chart.Backgrounds, colors[0])
		rep.Chart.Borders = append(rep.Chart.Borders, colors[1])
	}

	return rep
}

func sortSlowestFirst(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].AvgTime > rows[j].AvgTime })
}

func groupByCategory(results []bench.Result) []Category {
	var cats []Category
	pos := map[string]int{}
	for _, r := range results {
		i, ok := pos[r.Category]
		if !ok {
			i = len(cats)
			pos[r.Category] = i
			cats = append(cats, Category{Name: r.Category})
		}
		cats[i].Rows = append(cats[i].Rows, Row{Result: r, Band: bench.Band(r.AvgTime)})
	}
	for i := range cats {
		sortSlowestFirst(cats[i].Rows)
	}
	return cats
}

func tableRows(tables []bench.TableStat) []TableRow {
	sorted := append([]bench.TableStat(nil), tables...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	out := make([]TableRow, 0, len(sorted))
	for _, t := range sorted {
		out = append(out, TableRow{
			Name:      t.Name,
			Rows:      t.Rows,
			DataSize:  FormatSize(t.DataBytes),
			IndexSize: FormatSize(t.IndexBytes),
			TotalSize: FormatSize(t.TotalBytes()),
			Created:   formatTime(t.Created),
			Updated:   formatTime(t.Updated),
		})
	}
	return out
}

func indexRows(indexes []bench.IndexStat) []IndexRow {
	sorted := append([]bench.IndexStat(nil), indexes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Table != b.Table {
			return a.Table < b.Table
		}
		if a.Index != b.Index {
			return a.Index < b.Index
		}
		return a.Seq < b.Seq
	})

	out := make([]IndexRow, 0, len(sorted))
	for _, ix := range sorted {
		out = append(out, IndexRow{
			Table:  ix.Table,
			Index:  ix.Index,
			Column: ix.Column,
			Seq:    ix.Seq,
			Kind:   ix.Kind(),
		})
	}
	return out
}

func formatTime(t *time.Time) string {
	if t == nil {
		return NotAvail
	}
	return t.Format(TimeLayout)
}

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatSize divides by 1024 until the value drops below 1024 or the unit
// reaches TB.
func FormatSize(n int64) string {
	size := float64(n)
	unit := sizeUnits[0]
	for i, u := range sizeUnits {
		unit = u
		if size < 1024 || i == len(sizeUnits)-1 {
			break
		}
		size /= 1024
	}
	return fmt.Sprintf("%.2f %s", size, unit)
}

func (r Report) Render(w io.Writer) error {
	return errors.Wrap(tmpl.Execute(w, r), "render report")
}

func Render(w io.Writer, results []bench.Result, stats bench.DBStats, meta Meta) error {
	return Build(results, stats, meta).Render(w)
}

// WriteFile renders the report to path, creating parent directories.
func WriteFile(path string, results []bench.Result, stats bench.DBStats, meta Meta) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create report directory")
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create report")
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	if err := Render(w, results, stats, meta); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "write report")
	}
	return errors.Wrap(f.Close(), "close report")
}
