package sqlitec

import (
	"fmt"
	"io"
	"unsafe"

	"github.com/nsqlite/nsqlitec/internal/log"
	"modernc.org/libc"
	"modernc.org/libc/sys/types"
	lib "modernc.org/sqlite/lib"
)

const ptrSize = types.Size_t(unsafe.Sizeof(uintptr(0)))

// sqliteTransient makes the engine take its own copy of bound data.
const sqliteTransient = ^uintptr(0)

// Conn is an open database connection.
//
// The zero value is not usable, connections are created with Open.
type Conn struct {
	tls    *libc.TLS
	db     uintptr
	target string
	logger log.Logger

	// stmts holds the statements prepared on this connection that were not
	// closed yet, so Close can finalize them before closing the handle.
	stmts map[*Stmt]struct{}
}

// ConnOption customizes a Conn created by Open.
type ConnOption func(*Conn)

// WithLogger makes the connection write its trace records to logger.
// Connections discard them by default.
func WithLogger(logger log.Logger) ConnOption {
	return func(conn *Conn) {
		conn.logger = logger
	}
}

// Open opens a connection to target.
//
// The target is a file path, ":memory:" for a private in-memory database,
// "" for a private temporary database or a "file:" URI when OpenURI is set.
// Extended result codes are enabled on every returned connection.
func Open(
	target string, disposition OpenDisposition, flags OpenFlags, options ...ConnOption,
) (*Conn, error) {
	conn := &Conn{
		target: target,
		logger: log.NewLogger(io.Discard),
		stmts:  map[*Stmt]struct{}{},
	}
	for _, option := range options {
		option(conn)
	}

	conn.logger.InfoNs(log.NsSQL, "opening connection", log.KV{
		"target":      target,
		"disposition": fmt.Sprintf("%#x", disposition.flags()),
		"flags":       fmt.Sprintf("%#x", int32(flags)),
	})

	if disposition == DispositionCreateNew && targetExists(target, flags) {
		return nil, &Error{
			Kind:    ErrOpen,
			Code:    lib.SQLITE_CANTOPEN,
			Message: fmt.Sprintf("database %q already exists", target),
		}
	}

	conn.tls = libc.NewTLS()
	if err := conn.open(disposition.flags() | int32(flags)); err != nil {
		conn.tls.Close()
		conn.tls = nil
		return nil, err
	}

	if rc := lib.Xsqlite3_extended_result_codes(conn.tls, conn.db, 1); rc != lib.SQLITE_OK {
		err := conn.resultError(ErrOpen, rc)
		lib.Xsqlite3_close_v2(conn.tls, conn.db)
		conn.db = 0
		conn.tls.Close()
		conn.tls = nil
		return nil, err
	}

	return conn, nil
}

func (conn *Conn) open(flags int32) error {
	cTarget, err := libc.CString(conn.target)
	if err != nil {
		return &Error{Kind: ErrOpen, Code: lib.SQLITE_NOMEM, Message: err.Error()}
	}
	defer libc.Xfree(conn.tls, cTarget)

	ppDb, err := conn.malloc(int(ptrSize))
	if err != nil {
		return &Error{Kind: ErrOpen, Code: lib.SQLITE_NOMEM, Message: err.Error()}
	}
	defer libc.Xfree(conn.tls, ppDb)

	rc := lib.Xsqlite3_open_v2(conn.tls, cTarget, ppDb, flags, 0)
	conn.db = *(*uintptr)(unsafe.Pointer(ppDb))
	if rc == lib.SQLITE_OK {
		return nil
	}

	// The engine may hand back a handle even on failure, only to carry
	// the error message.
	openErr := conn.resultError(ErrOpen, rc)
	if conn.db != 0 {
		lib.Xsqlite3_close_v2(conn.tls, conn.db)
		conn.db = 0
	}
	return openErr
}

// Target returns the target the connection was opened with.
func (conn *Conn) Target() string {
	return conn.target
}

// LastInsertRowID returns the rowid of the most recent successful insert
// on the connection, or 0 if there was none.
func (conn *Conn) LastInsertRowID() int64 {
	if conn.closed() {
		return 0
	}
	return lib.Xsqlite3_last_insert_rowid(conn.tls, conn.db)
}

// Changes returns the number of rows modified by the most recently
// completed insert, update or delete on the connection.
func (conn *Conn) Changes() int64 {
	if conn.closed() {
		return 0
	}
	return int64(lib.Xsqlite3_changes(conn.tls, conn.db))
}

// AutocommitEnabled reports whether the connection is outside of any
// transaction or savepoint.
func (conn *Conn) AutocommitEnabled() bool {
	if conn.closed() {
		return true
	}
	return lib.Xsqlite3_get_autocommit(conn.tls, conn.db) != 0
}

// Exec prepares sql, steps it to completion discarding any row and
// closes it.
func (conn *Conn) Exec(sql string) error {
	stmt, err := conn.Prepare(sql)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for {
		hasRow, err := stmt.Step()
		if err != nil {
			return err
		}
		if !hasRow {
			return nil
		}
	}
}

// Close finalizes every statement still open on the connection and closes
// the connection. Calling Close more than once is a no-op.
func (conn *Conn) Close() error {
	if conn.closed() {
		return nil
	}

	for stmt := range conn.stmts {
		conn.logger.WarnNs(log.NsSQL, "finalizing statement left open", log.KV{
			"stmt": stmt.id,
			"sql":  stmt.sql,
		})
		stmt.Close()
	}

	rc := lib.Xsqlite3_close_v2(conn.tls, conn.db)
	conn.db = 0
	conn.tls.Close()
	conn.tls = nil

	conn.logger.InfoNs(log.NsSQL, "connection closed", log.KV{"target": conn.target})
	if rc != lib.SQLITE_OK {
		return fmt.Errorf("failed to close database %q: result code %d", conn.target, rc)
	}
	return nil
}

func (conn *Conn) closed() bool {
	return conn.db == 0
}

// resultError builds an *Error of the given kind from a native result code.
// The message is the generic text of the code, followed by the connection's
// last error message when it says something more.
func (conn *Conn) resultError(kind error, rc int32) *Error {
	code := rc
	if conn.db != 0 {
		if extended := lib.Xsqlite3_extended_errcode(conn.tls, conn.db); extended&0xff == rc&0xff {
			code = extended
		}
	}

	msg := conn.errstr(code)
	if conn.db != 0 {
		if detail := libc.GoString(lib.Xsqlite3_errmsg(conn.tls, conn.db)); detail != "" && detail != msg {
			msg += ": " + detail
		}
	}

	return &Error{Kind: kind, Code: int(code), Message: msg}
}

func (conn *Conn) errstr(rc int32) string {
	return libc.GoString(lib.Xsqlite3_errstr(conn.tls, rc))
}

// malloc allocates n bytes, at least one, on the C heap. The caller frees
// the memory with libc.Xfree.
func (conn *Conn) malloc(n int) (uintptr, error) {
	if n < 1 {
		n = 1
	}
	p := libc.Xmalloc(conn.tls, types.Size_t(n))
	if p == 0 {
		return 0, fmt.Errorf("cannot allocate %d bytes of memory", n)
	}
	return p, nil
}
