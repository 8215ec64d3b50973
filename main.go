package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"dbbench/bench"
	"dbbench/cli"
	"dbbench/config"
	"dbbench/metrics"
	"dbbench/report"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const steps = 4

type promptFunc func(user, host string) (string, error)

func main() {
	cfg, err := config.Load(config.DefaultEnvFiles)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(cfg, func(ctx context.Context, cfg *config.Config) error {
		return run(ctx, cfg, cli.PromptPassword)
	})
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// newRootCmd binds flags over cfg, whose values already reflect the
// environment, so a flag only wins when given.
func newRootCmd(cfg *config.Config, runFn func(context.Context, *config.Config) error) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "dbbench",
		Short: "Benchmark a fixed query catalog against MySQL or PostgreSQL and write an HTML report",
		Long: `dbbench runs each catalog query several times on a single session, collects
table, index and server statistics, and writes a self-contained HTML report.

Settings can also come from the environment or a .env file (BENCH_DB, DB_HOST,
DB_PORT, DB_USER, DB_PASSWORD, DB_NAME, BENCH_ITERATIONS, BENCH_OUTPUT, ...).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("password") {
				cfg.Password = password
				cfg.PasswordSet = true
			}
			err := runFn(cmd.Context(), cfg)
			if err != nil {
				cmd.PrintErrln("Error:", err)
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.Driver, "db", cfg.Driver, "Database type: mysql or postgres")
	f.StringVar(&cfg.Host, "host", cfg.Host, "Database host")
	f.IntVar(&cfg.Port, "port", cfg.Port, "Database port (0 = 3306 for mysql, 5432 for postgres)")
	f.StringVar(&cfg.User, "user", cfg.User, "Database user")
	f.StringVar(&password, "password", "", "Database password (prompted when not given)")
	f.StringVar(&cfg.Database, "database", cfg.Database, "Database name")
	f.IntVar(&cfg.Iterations, "iterations", cfg.Iterations, "Timed executions per query")
	f.StringVar(&cfg.Output, "output", cfg.Output, "HTML report path")
	f.StringVar(&cfg.QueriesFile, "queries", cfg.QueriesFile, "YAML file replacing the built-in query catalog")
	f.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "Write Prometheus metrics in textfile format to this path")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")

	return cmd
}

func run(ctx context.Context, cfg *config.Config, prompt promptFunc) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	d, err := dialectFor(cfg.Driver)
	if err != nil {
		return err
	}
	log := cfg.Logger()

	catalog := d.Catalog
	if cfg.QueriesFile != "" {
		catalog, err = bench.LoadCatalog(cfg.QueriesFile)
		if err != nil {
			return err
		}
	}

	if !cfg.PasswordSet {
		cfg.Password, err = prompt(cfg.User, cfg.Host)
		if err != nil {
			return err
		}
	}

	port := cfg.Port
	if port == 0 {
		port = d.DefaultPort
	}
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(port))
	runID := uuid.NewString()

	bench.PrintBanner(d.Title())
	fmt.Printf("  Database:   %s @ %s\n", cfg.Database, addr)
	fmt.Printf("  Queries:    %d\n", len(catalog))
	fmt.Printf("  Iterations: %d\n", cfg.Iterations)
	fmt.Printf("  Run:        %s\n", runID)

	bench.Step(1, steps, "Connecting...")
	db, err := d.Connect(ctx, bench.ConnConfig{
		Host:     cfg.Host,
		Port:     port,
		User:     cfg.User,
		Password: cfg.Password,
		Database: cfg.Database,
		Timeout:  cfg.ConnectTimeout,
	})
	if err != nil {
		bench.Fail("Connection failed")
		return errors.Wrapf(err, "connect to %s", addr)
	}
	defer func() { _ = db.Close() }()

	conn, err := db.Connx(ctx)
	if err != nil {
		bench.Fail("Connection failed")
		return errors.Wrap(err, "acquire session")
	}
	defer func() { _ = conn.Close() }()
	bench.OK("Connected to %s", addr)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	results, stats := benchmark(ctx, conn, d, catalog, cfg.Iterations, log, m)

	bench.Step(4, steps, "Writing report...")
	meta := report.Meta{
		Title:       d.Title(),
		Database:    cfg.Database,
		Iterations:  cfg.Iterations,
		GeneratedAt: time.Now(),
		RunID:       runID,
	}
	if err := report.WriteFile(cfg.Output, results, stats, meta); err != nil {
		bench.Fail("Report not written")
		return err
	}
	bench.OK("Report written to %s", cfg.Output)

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile, reg); err != nil {
			log.Warnf("Error writing metrics: %v", err)
		} else {
			bench.OK("Metrics written to %s", cfg.MetricsFile)
		}
	}

	fmt.Println()
	bench.PrintSummary(results)
	return nil
}

// benchmark runs steps 2 and 3 on the pinned session.
func benchmark(ctx context.Context, conn *sqlx.Conn, d dialect, catalog []bench.QueryDef,
	iterations int, log *logrus.Logger, m *metrics.Metrics) ([]bench.Result, bench.DBStats) {
	bench.Step(2, steps, "Running benchmarks...")
	runner := bench.NewRunner(iterations, log)
	runner.Observer = m
	results := runner.Run(ctx, conn, catalog)
	bench.OK("%d of %d queries benchmarked", len(results), len(catalog))

	bench.Step(3, steps, "Collecting database statistics...")
	stats := bench.CollectStats(ctx, d.Stats(conn), log)
	m.ObserveTables(stats.Tables)
	bench.OK("%d tables, %d index columns", len(stats.Tables), len(stats.Indexes))

	return results, stats
}
