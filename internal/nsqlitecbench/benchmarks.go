package nsqlitecbench

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nsqlite/nsqlitec/internal/nsqlitecbench/benchbar"
	"github.com/nsqlite/nsqlitec/internal/nsqlitecbench/config"
)

// benchmarkResult stores the outcome of a benchmark.
type benchmarkResult struct {
	Name        string
	Duration    time.Duration
	TotalReads  uint64
	TotalWrites uint64
}

type benchmark struct {
	name string
	run  func(d driver, conf config.Config, out io.Writer) (benchmarkResult, error)
}

func benchmarks() []benchmark {
	return []benchmark{
		{name: "Simple", run: runBenchmarkSimple},
		{name: "Large", run: runBenchmarkLarge},
		{name: "Many", run: runBenchmarkMany},
		{name: "Rollback", run: runBenchmarkRollback},
	}
}

func userEmail(idx int) string {
	return fmt.Sprintf("user%d@example.com", idx)
}

// tenth returns a tenth of n, at least one.
func tenth(n int) int {
	return max(n/10, 1)
}

// runBenchmarks recreates the schema and runs every benchmark against d,
// stopping early when ctx is done.
func runBenchmarks(
	ctx context.Context, d driver, conf config.Config, out io.Writer,
) ([]benchmarkResult, error) {
	var results []benchmarkResult

	for _, bench := range benchmarks() {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		if err := d.recreateSchema(); err != nil {
			return results, fmt.Errorf("error recreating schema: %w", err)
		}

		res, err := bench.run(d, conf, out)
		if err != nil {
			return results, fmt.Errorf("benchmark %s: %w", bench.name, err)
		}
		res.Name = bench.name
		results = append(results, res)
	}

	return results, nil
}

// runBenchmarkSimple inserts X users and then queries all of them in single
// query.
func runBenchmarkSimple(d driver, conf config.Config, out io.Writer) (benchmarkResult, error) {
	start := time.Now()

	bar := benchbar.NewBar(fmt.Sprintf("Inserting %d users", conf.Users), conf.Users, out)
	writes, err := d.insertUsers(conf.Users, userEmail, bar)
	if err != nil {
		return benchmarkResult{}, err
	}
	bar.Finish()

	reads, err := d.readUsers()
	if err != nil {
		return benchmarkResult{}, err
	}

	return benchmarkResult{
		Duration:    time.Since(start),
		TotalReads:  reads,
		TotalWrites: writes,
	}, nil
}

// runBenchmarkLarge inserts a tenth of X users with Y bytes of content each
// and then queries all of them in single query.
func runBenchmarkLarge(d driver, conf config.Config, out io.Writer) (benchmarkResult, error) {
	start := time.Now()
	users := tenth(conf.Users)

	email := strings.Repeat("Y", conf.LargeBytes)
	bar := benchbar.NewBar(
		fmt.Sprintf("Inserting %d users of %d bytes", users, conf.LargeBytes), users, out,
	)
	writes, err := d.insertUsers(users, func(int) string { return email }, bar)
	if err != nil {
		return benchmarkResult{}, err
	}
	bar.Finish()

	reads, err := d.readUsers()
	if err != nil {
		return benchmarkResult{}, err
	}

	return benchmarkResult{
		Duration:    time.Since(start),
		TotalReads:  reads,
		TotalWrites: writes,
	}, nil
}

// runBenchmarkMany inserts a tenth of X users and then queries all of them
// Y times. This simulates a read-heavy workload.
func runBenchmarkMany(d driver, conf config.Config, out io.Writer) (benchmarkResult, error) {
	start := time.Now()
	users := tenth(conf.Users)

	bar := benchbar.NewBar(fmt.Sprintf("Inserting %d users", users), users, out)
	writes, err := d.insertUsers(users, userEmail, bar)
	if err != nil {
		return benchmarkResult{}, err
	}
	bar.Finish()

	var reads uint64
	bar = benchbar.NewBar(
		fmt.Sprintf("Querying all users %d times", conf.Queries), conf.Queries, out,
	)
	for range conf.Queries {
		n, err := d.readUsers()
		if err != nil {
			return benchmarkResult{}, err
		}
		reads += n
		bar.Inc()
	}
	bar.Finish()

	return benchmarkResult{
		Duration:    time.Since(start),
		TotalReads:  reads,
		TotalWrites: writes,
	}, nil
}

// runBenchmarkRollback inserts a tenth of X users in a transaction that is
// rolled back, then checks that nothing was left behind.
func runBenchmarkRollback(d driver, conf config.Config, out io.Writer) (benchmarkResult, error) {
	start := time.Now()
	users := tenth(conf.Users)

	bar := benchbar.NewBar(fmt.Sprintf("Discarding %d users", users), users, out)
	if err := d.discardUsers(users, bar); err != nil {
		return benchmarkResult{}, err
	}
	bar.Finish()

	count, err := d.countUsers()
	if err != nil {
		return benchmarkResult{}, err
	}
	if count != 0 {
		return benchmarkResult{}, fmt.Errorf("%d users left after rollback", count)
	}

	return benchmarkResult{
		Duration: time.Since(start),
	}, nil
}
