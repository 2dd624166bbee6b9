package nsqlitecbench

import (
	"github.com/nsqlite/nsqlitec/internal/nsqlitecbench/benchbar"
)

const (
	insertUserSQL = "INSERT INTO users (created, email, active) VALUES (?, ?, ?)"
	selectUserSQL = "SELECT id, created, email, active FROM users ORDER BY id"
	countUserSQL  = "SELECT count(*) FROM users"
)

// schema drops the benchmark tables and recreates them.
var schema = []string{
	`PRAGMA journal_mode = WAL`,
	`DROP TABLE IF EXISTS users`,
	`CREATE TABLE users (
		id INTEGER PRIMARY KEY NOT NULL,
		created INTEGER NOT NULL,
		email TEXT NOT NULL,
		active INTEGER NOT NULL
	)`,
	`CREATE INDEX users_created ON users(created)`,
}

// driver is one way of reaching SQLite that the benchmarks can drive.
type driver interface {
	name() string
	recreateSchema() error
	// insertUsers inserts n users in one transaction through one reused
	// statement and returns how many rows were written.
	insertUsers(n int, email func(idx int) string, bar *benchbar.Bar) (uint64, error)
	// discardUsers inserts n users in one transaction and rolls it back.
	discardUsers(n int, bar *benchbar.Bar) error
	// readUsers reads every user and returns how many rows were read.
	readUsers() (uint64, error)
	countUsers() (int64, error)
	close() error
}
