package nsqlitecbench

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/nsqlite/nsqlitec/internal/log"
	"github.com/nsqlite/nsqlitec/internal/nsqlitecbench/benchbar"
)

type mattnDriver struct {
	db *sql.DB
}

func createMattnDriver(dir string, logger log.Logger) (*mattnDriver, error) {
	dbPath := filepath.Join(dir, "mattn", "bench.db")

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}
	logger.InfoNs(log.NsBench, "opening database", log.KV{"driver": "mattn", "path": dbPath})

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	// One connection, so the schema pragmas and the benchmarks share it.
	db.SetMaxOpenConns(1)

	return &mattnDriver{db: db}, nil
}

func (d *mattnDriver) name() string {
	return "mattn/go-sqlite3"
}

func (d *mattnDriver) recreateSchema() error {
	for _, s := range schema {
		if _, err := d.db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (d *mattnDriver) insertUsers(
	n int, email func(idx int) string, bar *benchbar.Bar,
) (uint64, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	written, err := d.insert(tx, n, email, bar)
	if err != nil {
		return 0, fmt.Errorf("error when inserting: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return written, nil
}

func (d *mattnDriver) discardUsers(n int, bar *benchbar.Bar) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}

	if _, err := d.insert(tx, n, userEmail, bar); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("error when inserting: %w", err)
	}
	return tx.Rollback()
}

func (d *mattnDriver) insert(
	tx *sql.Tx, n int, email func(idx int) string, bar *benchbar.Bar,
) (uint64, error) {
	stmt, err := tx.Prepare(insertUserSQL)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()

	var written uint64
	for idx := range n {
		res, err := stmt.Exec(time.Now().Unix(), email(idx), 1)
		if err != nil {
			return written, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return written, err
		}

		written += uint64(affected)
		bar.Inc()
	}

	return written, nil
}

func (d *mattnDriver) readUsers() (uint64, error) {
	rows, err := d.db.Query(selectUserSQL)
	if err != nil {
		return 0, fmt.Errorf("error when querying: %w", err)
	}
	defer rows.Close()

	var reads uint64
	for rows.Next() {
		var id, created, active int
		var email string
		if err := rows.Scan(&id, &created, &email, &active); err != nil {
			return reads, fmt.Errorf("error when scanning: %w", err)
		}
		reads++
	}

	return reads, rows.Err()
}

func (d *mattnDriver) countUsers() (int64, error) {
	var count int64
	err := d.db.QueryRow(countUserSQL).Scan(&count)
	return count, err
}

func (d *mattnDriver) close() error {
	return d.db.Close()
}
