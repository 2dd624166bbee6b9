package nsqlitecbench

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/nsqlitec/internal/log"
	"github.com/nsqlite/nsqlitec/internal/nsqlitec/styled"
	"github.com/nsqlite/nsqlitec/internal/nsqlitecbench/config"
	"github.com/nsqlite/nsqlitec/internal/util/numutil"
	"github.com/nsqlite/nsqlitec/internal/version"
)

// Run executes the benchmarks through sqlitec and through mattn/go-sqlite3
// and prints the results.
func Run(ctx context.Context) error {
	conf := config.MustParse(os.Args)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(version.BenchVersion())

	level := slog.LevelWarn
	if conf.Verbose {
		level = slog.LevelDebug
	}
	logger := log.NewLoggerWithLevel(os.Stderr, level)

	dir := conf.DataDirectory
	if dir == "" {
		tmpDir, err := os.MkdirTemp("", "nsqlitecbench_*")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmpDir)
		dir = tmpDir
	}

	sqlitecDrv, err := createSqlitecDriver(dir, logger)
	if err != nil {
		return fmt.Errorf("error opening sqlitec db: %w", err)
	}
	defer sqlitecDrv.close()

	mattnDrv, err := createMattnDriver(dir, logger)
	if err != nil {
		return fmt.Errorf("error opening mattn/go-sqlite3 db: %w", err)
	}
	defer mattnDrv.close()

	for _, d := range []driver{sqlitecDrv, mattnDrv} {
		fmt.Printf("\n--- Benchmarks for %s ---\n", d.name())
		results, err := runBenchmarks(ctx, d, conf, os.Stdout)
		if err != nil {
			return fmt.Errorf("error benchmarking %s: %w", d.name(), err)
		}
		printResults(os.Stdout, results)
	}

	return nil
}

func printResults(out io.Writer, results []benchmarkResult) {
	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Name", "Reads", "Writes", "Writes/s", "Duration"})

	for _, r := range results {
		tw.AppendRow(table.Row{
			r.Name,
			numutil.IntWithCommas(r.TotalReads),
			numutil.IntWithCommas(r.TotalWrites),
			numutil.PerSecond(int(r.TotalWrites), r.Duration),
			r.Duration,
		})
	}

	fmt.Fprintln(out, tw.Render())
}
