package bench

import "time"

type ConnConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Timeout  time.Duration
}

// QueryDef is one entry of the benchmark catalog.
type QueryDef struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Query       string   `yaml:"query"`
	Category    string   `yaml:"category"`
	Optional    bool     `yaml:"optional"`
	Suggestions []string `yaml:"suggestions"`
}

// QueryResult is a single timed attempt. Err is set for a failed attempt.
type QueryResult struct {
	At       time.Time
	Duration time.Duration
	Rows     int
	Err      error
}

// Result holds the aggregates of every successful attempt of one query.
type Result struct {
	Name        string
	Description string
	Query       string
	Category    string
	AvgTime     time.Duration
	MinTime     time.Duration
	MaxTime     time.Duration
	StdDev      time.Duration
	P50         time.Duration
	P95         time.Duration
	RowCount    float64
	Iterations  int
	Errors      int
	Suggestions []string
}

type TableStat struct {
	Name       string
	Rows       int64
	DataBytes  int64
	IndexBytes int64
	FreeBytes  int64
	Created    *time.Time
	Updated    *time.Time
}

func (t TableStat) TotalBytes() int64 {
	return t.DataBytes + t.IndexBytes
}

type IndexStat struct {
	Table   string
	Index   string
	Column  string
	Seq     int
	Unique  bool
	Primary bool
}

// Kind is the label shown in the index table.
func (i IndexStat) Kind() string {
	switch {
	case i.Primary:
		return "Primary Key"
	case i.Unique:
		return "Unique"
	default:
		return "Non-unique"
	}
}

type ServerVars struct {
	BufferPoolSize int64
	MaxConnections int64
	QueryCacheSize int64
}

type DBStats struct {
	Tables    []TableStat
	Indexes   []IndexStat
	Variables ServerVars
}
