package nsqlitecbench

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nsqlite/nsqlitec/internal/log"
	"github.com/nsqlite/nsqlitec/internal/nsqlitecbench/benchbar"
	"github.com/nsqlite/nsqlitec/internal/sqlitec"
)

type sqlitecDriver struct {
	conn *sqlitec.Conn
}

func createSqlitecDriver(dir string, logger log.Logger) (*sqlitecDriver, error) {
	dbPath := filepath.Join(dir, "sqlitec", "bench.db")

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}
	logger.InfoNs(log.NsBench, "opening database", log.KV{"driver": "sqlitec", "path": dbPath})

	conn, err := sqlitec.Open(
		dbPath, sqlitec.DispositionOpenOrCreate, sqlitec.OpenReadWrite, sqlitec.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	return &sqlitecDriver{conn: conn}, nil
}

func (d *sqlitecDriver) name() string {
	return "nsqlitec/sqlitec"
}

func (d *sqlitecDriver) recreateSchema() error {
	for _, s := range schema {
		if err := d.conn.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (d *sqlitecDriver) insertUsers(
	n int, email func(idx int) string, bar *benchbar.Bar,
) (uint64, error) {
	var written uint64

	err := sqlitec.WithSavepoint(d.conn, "bench_insert", func(*sqlitec.Savepoint) error {
		count, err := d.insert(n, email, bar)
		written = count
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("error when inserting: %w", err)
	}

	return written, nil
}

func (d *sqlitecDriver) discardUsers(n int, bar *benchbar.Bar) error {
	sp, err := d.conn.Savepoint("bench_discard")
	if err != nil {
		return err
	}
	defer sp.Close()

	if _, err := d.insert(n, userEmail, bar); err != nil {
		return fmt.Errorf("error when inserting: %w", err)
	}
	sp.Rollback()

	return nil
}

// insert runs the reused insert statement n times.
func (d *sqlitecDriver) insert(
	n int, email func(idx int) string, bar *benchbar.Bar,
) (uint64, error) {
	stmt, err := d.conn.Prepare(insertUserSQL, sqlitec.WithPersistent())
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	var written uint64
	for idx := range n {
		if err := sqlitec.Bind(stmt, 1, time.Now().Unix()); err != nil {
			return written, err
		}
		if err := sqlitec.Bind(stmt, 2, email(idx)); err != nil {
			return written, err
		}
		if err := sqlitec.Bind(stmt, 3, true); err != nil {
			return written, err
		}

		if err := stmt.Execute(); err != nil {
			return written, err
		}
		stmt.Reset()

		written += uint64(d.conn.Changes())
		bar.Inc()
	}

	return written, nil
}

func (d *sqlitecDriver) readUsers() (uint64, error) {
	stmt, err := d.conn.Prepare(selectUserSQL, sqlitec.WithPersistent())
	if err != nil {
		return 0, fmt.Errorf("error when querying: %w", err)
	}
	defer stmt.Close()

	var reads uint64
	for {
		hasRow, err := stmt.Step()
		if err != nil {
			return reads, fmt.Errorf("error when reading: %w", err)
		}
		if !hasRow {
			return reads, nil
		}

		_ = sqlitec.Column[int64](stmt, 0)
		_ = sqlitec.Column[int64](stmt, 1)
		_ = sqlitec.Column[string](stmt, 2)
		_ = sqlitec.Column[bool](stmt, 3)
		reads++
	}
}

func (d *sqlitecDriver) countUsers() (int64, error) {
	stmt, err := d.conn.Prepare(countUserSQL)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	if _, err := stmt.Step(); err != nil {
		return 0, err
	}
	return sqlitec.Column[int64](stmt, 0), nil
}

func (d *sqlitecDriver) close() error {
	return d.conn.Close()
}
