// Package sqlitec provides a typed wrapper for the SQLite C API.
//
// It owns exactly one native handle per value: a Conn owns a database
// connection, a Stmt owns a prepared statement and a Savepoint owns the
// statements that open, release and roll back one named savepoint. Every
// handle is released exactly once by the Close methods, which are meant to be
// deferred right after a successful constructor call:
//
//	conn, err := sqlitec.Open("app.db", sqlitec.DispositionOpenOrCreate, sqlitec.OpenReadWrite)
//	if err != nil {
//		return err
//	}
//	defer conn.Close()
//
//	sp, err := conn.Savepoint("import")
//	if err != nil {
//		return err
//	}
//	defer sp.Close() // rolls back unless Commit was called
//
// A Conn and everything derived from it must be used by one goroutine at a
// time. Separate connections to the same file may be used concurrently.
//
// The engine is reached through the transpiled C API of modernc.org/sqlite,
// so no cgo toolchain is needed.
//
//   - https://www.sqlite.org/cintro.html
//   - https://www.sqlite.org/c3ref/intro.html
package sqlitec
