package sqlitec

import (
	"unsafe"

	"github.com/nsqlite/nsqlitec/internal/log"
	"github.com/orsinium-labs/enum"
	"modernc.org/libc"
	lib "modernc.org/sqlite/lib"
)

// StatementState is the lifecycle position of a Stmt.
type StatementState enum.Member[string]

var (
	// StatePrepared is the state of a fresh or reset statement.
	StatePrepared = StatementState{Value: "prepared"}
	// StateHasRow means the last Step produced a row.
	StateHasRow = StatementState{Value: "has-row"}
	// StateCompleted means the last Step ran the statement to completion.
	StateCompleted = StatementState{Value: "completed"}
	// StateError means the last Step failed. Reset recovers from it.
	StateError = StatementState{Value: "error"}

	// StatementStates lists every StatementState, for parsing and display.
	StatementStates = enum.New(
		StatePrepared,
		StateHasRow,
		StateCompleted,
		StateError,
	)
)

// Stmt is a compiled SQL statement bound to the Conn that prepared it.
//
// A Stmt must not outlive its Conn. Closing the Conn finalizes any Stmt left
// open.
type Stmt struct {
	conn  *Conn
	stmt  uintptr
	id    uint64
	sql   string
	state StatementState
}

type stmtOptions struct {
	persistent bool
}

// StmtOption customizes the compilation of a statement.
type StmtOption func(*stmtOptions)

// WithPersistent hints the engine that the statement will be kept and
// reused many times.
func WithPersistent() StmtOption {
	return func(opts *stmtOptions) {
		opts.persistent = true
	}
}

// Prepare compiles the first statement of sql. Any text after it is ignored.
func (conn *Conn) Prepare(sql string, options ...StmtOption) (*Stmt, error) {
	opts := stmtOptions{}
	for _, option := range options {
		option(&opts)
	}

	id := nextStatementID()
	conn.logger.DebugNs(log.NsSQL, "preparing statement", log.KV{
		"stmt": id,
		"sql":  sql,
	})

	if conn.closed() {
		return nil, &Error{
			Kind: ErrPrepare, Code: lib.SQLITE_MISUSE, Message: "connection is closed",
			SQL: sql, StatementID: id,
		}
	}

	// The C copy carries the terminating NUL, so nByte includes it, which
	// saves the engine a copy.
	cSQL, err := libc.CString(sql)
	if err != nil {
		return nil, &Error{
			Kind: ErrPrepare, Code: lib.SQLITE_NOMEM, Message: err.Error(),
			SQL: sql, StatementID: id,
		}
	}
	defer libc.Xfree(conn.tls, cSQL)

	ppStmt, err := conn.malloc(int(ptrSize))
	if err != nil {
		return nil, &Error{
			Kind: ErrPrepare, Code: lib.SQLITE_NOMEM, Message: err.Error(),
			SQL: sql, StatementID: id,
		}
	}
	defer libc.Xfree(conn.tls, ppStmt)

	var prepFlags uint32
	if opts.persistent {
		prepFlags = lib.SQLITE_PREPARE_PERSISTENT
	}

	rc := lib.Xsqlite3_prepare_v3(conn.tls, conn.db, cSQL, int32(len(sql)+1), prepFlags, ppStmt, 0)
	if rc != lib.SQLITE_OK {
		prepErr := conn.resultError(ErrPrepare, rc)
		prepErr.SQL = sql
		prepErr.StatementID = id
		return nil, prepErr
	}

	handle := *(*uintptr)(unsafe.Pointer(ppStmt))
	if handle == 0 {
		return nil, &Error{
			Kind: ErrPrepare, Code: lib.SQLITE_MISUSE, Message: "no SQL statement to prepare",
			SQL: sql, StatementID: id,
		}
	}

	stmt := &Stmt{
		conn:  conn,
		stmt:  handle,
		id:    id,
		sql:   sql,
		state: StatePrepared,
	}
	conn.stmts[stmt] = struct{}{}
	return stmt, nil
}

// PrepareBytes is Prepare for SQL text held in a byte slice.
func (conn *Conn) PrepareBytes(sql []byte, options ...StmtOption) (*Stmt, error) {
	return conn.Prepare(string(sql), options...)
}

// ID returns the process-wide id of the statement.
func (stmt *Stmt) ID() uint64 {
	return stmt.id
}

// SQL returns the text the statement was prepared from.
func (stmt *Stmt) SQL() string {
	return stmt.sql
}

// State returns the lifecycle state of the statement.
func (stmt *Stmt) State() StatementState {
	return stmt.state
}

// ReadOnly reports whether the statement makes no direct change to the
// database file.
func (stmt *Stmt) ReadOnly() bool {
	if stmt.stmt == 0 {
		return true
	}
	return lib.Xsqlite3_stmt_readonly(stmt.conn.tls, stmt.stmt) != 0
}

// BindParameterCount returns the largest parameter index of the statement.
func (stmt *Stmt) BindParameterCount() int {
	if stmt.stmt == 0 {
		return 0
	}
	return int(lib.Xsqlite3_bind_parameter_count(stmt.conn.tls, stmt.stmt))
}

// Step advances the statement. It returns true when a row is available and
// false when the statement ran to completion.
func (stmt *Stmt) Step() (bool, error) {
	if stmt.stmt == 0 {
		stmt.state = StateError
		return false, stmt.closedError(ErrStep)
	}

	stmt.conn.logger.DebugNs(log.NsSQL, "stepping statement", log.KV{"stmt": stmt.id})

	switch rc := lib.Xsqlite3_step(stmt.conn.tls, stmt.stmt); rc {
	case lib.SQLITE_ROW:
		stmt.state = StateHasRow
		return true, nil
	case lib.SQLITE_DONE:
		stmt.state = StateCompleted
		return false, nil
	default:
		stmt.state = StateError
		return false, stmt.resultError(ErrStep, rc)
	}
}

// StepCritical is Step for statements whose failure leaves the connection
// in an unknown transaction state. On failure the process is terminated.
func (stmt *Stmt) StepCritical() bool {
	hasRow, err := stmt.Step()
	if err != nil {
		stmt.failFast(err)
	}
	return hasRow
}

// Execute steps a statement that must not produce rows, such as an insert
// or a schema change.
func (stmt *Stmt) Execute() error {
	hasRow, err := stmt.Step()
	if err != nil {
		return err
	}
	if hasRow {
		return &Error{
			Kind: ErrUnexpectedResult, Code: lib.SQLITE_ROW,
			SQL: stmt.sql, StatementID: stmt.id,
		}
	}
	return nil
}

// ExecuteCritical is Execute with the failure policy of StepCritical.
func (stmt *Stmt) ExecuteCritical() {
	if err := stmt.Execute(); err != nil {
		stmt.failFast(err)
	}
}

// Reset rewinds the statement so it can be stepped again. Bindings are kept.
//
// The error of a failed Step is reported by Step itself, so Reset never
// fails.
func (stmt *Stmt) Reset() {
	if stmt.stmt == 0 {
		return
	}

	stmt.conn.logger.DebugNs(log.NsSQL, "resetting statement", log.KV{"stmt": stmt.id})
	lib.Xsqlite3_reset(stmt.conn.tls, stmt.stmt)
	stmt.state = StatePrepared
}

// ClearBindings sets every parameter of the statement back to NULL.
func (stmt *Stmt) ClearBindings() error {
	if stmt.stmt == 0 {
		return stmt.closedError(ErrBinding)
	}

	if rc := lib.Xsqlite3_clear_bindings(stmt.conn.tls, stmt.stmt); rc != lib.SQLITE_OK {
		return stmt.resultError(ErrBinding, rc)
	}
	return nil
}

// Close finalizes the statement. Calling Close more than once is a no-op.
func (stmt *Stmt) Close() {
	if stmt.stmt == 0 {
		return
	}

	stmt.conn.logger.DebugNs(log.NsSQL, "finalizing statement", log.KV{"stmt": stmt.id})

	// The result repeats the error of the last Step, if any.
	lib.Xsqlite3_finalize(stmt.conn.tls, stmt.stmt)
	stmt.stmt = 0
	delete(stmt.conn.stmts, stmt)
}

// ColumnCount returns the number of columns in the result of the
// statement, which is 0 for statements that return no data.
func (stmt *Stmt) ColumnCount() int {
	if stmt.stmt == 0 {
		return 0
	}
	return int(lib.Xsqlite3_column_count(stmt.conn.tls, stmt.stmt))
}

// ColumnName returns the name of the result column at index, starting at 0.
func (stmt *Stmt) ColumnName(index int) string {
	if stmt.stmt == 0 {
		return ""
	}
	return libc.GoString(lib.Xsqlite3_column_name(stmt.conn.tls, stmt.stmt, int32(index)))
}

// ColumnDeclType returns the declared type of the table column behind the
// result column at index, or "" for expressions.
func (stmt *Stmt) ColumnDeclType(index int) string {
	if stmt.stmt == 0 {
		return ""
	}
	return libc.GoString(lib.Xsqlite3_column_decltype(stmt.conn.tls, stmt.stmt, int32(index)))
}

func (stmt *Stmt) resultError(kind error, rc int32) *Error {
	err := stmt.conn.resultError(kind, rc)
	err.SQL = stmt.sql
	err.StatementID = stmt.id
	return err
}

func (stmt *Stmt) closedError(kind error) *Error {
	return &Error{
		Kind: kind, Code: lib.SQLITE_MISUSE, Message: "statement is closed",
		SQL: stmt.sql, StatementID: stmt.id,
	}
}
