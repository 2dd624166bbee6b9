package sqlitec

import (
	"fmt"
	"unsafe"

	"modernc.org/libc"
	lib "modernc.org/sqlite/lib"
)

// Null is the SQL NULL value, usable as a Bind parameter.
type Null struct{}

// Param is the closed set of Go types that can be bound to a statement
// parameter.
type Param interface {
	Null | string | []byte | bool | int | int32 | int64 | float64
}

// ColumnValue is the closed set of Go types a result column can be read as.
type ColumnValue interface {
	string | []byte | bool | int | int32 | int64 | float64
}

// ColumnType is the storage class of a value in a result row.
type ColumnType int

const (
	TypeInteger ColumnType = lib.SQLITE_INTEGER
	TypeFloat   ColumnType = lib.SQLITE_FLOAT
	TypeText    ColumnType = lib.SQLITE_TEXT
	TypeBlob    ColumnType = lib.SQLITE_BLOB
	TypeNull    ColumnType = lib.SQLITE_NULL
)

func (t ColumnType) String() string {
	switch t {
	case TypeInteger:
		return "INTEGER"
	case TypeFloat:
		return "FLOAT"
	case TypeText:
		return "TEXT"
	case TypeBlob:
		return "BLOB"
	case TypeNull:
		return "NULL"
	default:
		return fmt.Sprintf("ColumnType(%d)", int(t))
	}
}

// Bind binds value to the parameter at index, starting at 1. The native
// binding is selected from the type of value.
func Bind[T Param](stmt *Stmt, index int, value T) error {
	switch v := any(value).(type) {
	case Null:
		return stmt.BindNull(index)
	case string:
		return stmt.BindText(index, v)
	case []byte:
		return stmt.BindBlob(index, v)
	case bool:
		return stmt.BindBool(index, v)
	case int:
		return stmt.BindInt(index, v)
	case int32:
		return stmt.BindInt32(index, v)
	case int64:
		return stmt.BindInt64(index, v)
	case float64:
		return stmt.BindFloat64(index, v)
	}
	panic(fmt.Sprintf("sqlitec: unsupported parameter type %T", value))
}

// Column reads the result column at index, starting at 0, of the current
// row as T. NULL reads as the zero value of T.
func Column[T ColumnValue](stmt *Stmt, index int) T {
	var value T
	switch p := any(&value).(type) {
	case *string:
		*p = stmt.ColumnText(index)
	case *[]byte:
		*p = stmt.ColumnBlob(index)
	case *bool:
		*p = stmt.ColumnBool(index)
	case *int:
		*p = stmt.ColumnInt(index)
	case *int32:
		*p = stmt.ColumnInt32(index)
	case *int64:
		*p = stmt.ColumnInt64(index)
	case *float64:
		*p = stmt.ColumnFloat64(index)
	}
	return value
}

// BindNull binds NULL to the parameter at index.
func (stmt *Stmt) BindNull(index int) error {
	if stmt.stmt == 0 {
		return stmt.closedError(ErrBinding)
	}
	return stmt.bindResult(index, lib.Xsqlite3_bind_null(stmt.conn.tls, stmt.stmt, int32(index)))
}

// BindText binds value as UTF-8 text. The engine keeps its own copy.
func (stmt *Stmt) BindText(index int, value string) error {
	if stmt.stmt == 0 {
		return stmt.closedError(ErrBinding)
	}

	buf, err := stmt.conn.malloc(len(value))
	if err != nil {
		return stmt.nomemError(err)
	}
	defer libc.Xfree(stmt.conn.tls, buf)
	copy(unsafe.Slice((*byte)(unsafe.Pointer(buf)), len(value)), value)

	rc := lib.Xsqlite3_bind_text64(
		stmt.conn.tls, stmt.stmt, int32(index), buf, uint64(len(value)), sqliteTransient, lib.SQLITE_UTF8,
	)
	return stmt.bindResult(index, rc)
}

// BindBlob binds value as a blob. The engine keeps its own copy. A nil
// slice binds NULL, an empty one binds a zero-length blob.
func (stmt *Stmt) BindBlob(index int, value []byte) error {
	if value == nil {
		return stmt.BindNull(index)
	}
	if stmt.stmt == 0 {
		return stmt.closedError(ErrBinding)
	}

	buf, err := stmt.conn.malloc(len(value))
	if err != nil {
		return stmt.nomemError(err)
	}
	defer libc.Xfree(stmt.conn.tls, buf)
	copy(unsafe.Slice((*byte)(unsafe.Pointer(buf)), len(value)), value)

	rc := lib.Xsqlite3_bind_blob64(
		stmt.conn.tls, stmt.stmt, int32(index), buf, uint64(len(value)), sqliteTransient,
	)
	return stmt.bindResult(index, rc)
}

// BindBool binds value as the integer 1 or 0.
func (stmt *Stmt) BindBool(index int, value bool) error {
	var v int64
	if value {
		v = 1
	}
	return stmt.BindInt64(index, v)
}

// BindInt binds value as a 64-bit integer.
func (stmt *Stmt) BindInt(index int, value int) error {
	return stmt.BindInt64(index, int64(value))
}

// BindInt32 binds value as a 32-bit integer.
func (stmt *Stmt) BindInt32(index int, value int32) error {
	if stmt.stmt == 0 {
		return stmt.closedError(ErrBinding)
	}
	return stmt.bindResult(index, lib.Xsqlite3_bind_int(stmt.conn.tls, stmt.stmt, int32(index), value))
}

// BindInt64 binds value as a 64-bit integer.
func (stmt *Stmt) BindInt64(index int, value int64) error {
	if stmt.stmt == 0 {
		return stmt.closedError(ErrBinding)
	}
	return stmt.bindResult(index, lib.Xsqlite3_bind_int64(stmt.conn.tls, stmt.stmt, int32(index), value))
}

// BindFloat64 binds value as a double.
func (stmt *Stmt) BindFloat64(index int, value float64) error {
	if stmt.stmt == 0 {
		return stmt.closedError(ErrBinding)
	}
	return stmt.bindResult(index, lib.Xsqlite3_bind_double(stmt.conn.tls, stmt.stmt, int32(index), value))
}

// ColumnType returns the storage class of the value at index in the
// current row.
func (stmt *Stmt) ColumnType(index int) ColumnType {
	if stmt.stmt == 0 {
		return TypeNull
	}
	return ColumnType(lib.Xsqlite3_column_type(stmt.conn.tls, stmt.stmt, int32(index)))
}

// ColumnIsNull reports whether the value at index in the current row is NULL.
func (stmt *Stmt) ColumnIsNull(index int) bool {
	return stmt.ColumnType(index) == TypeNull
}

// ColumnText returns the value at index as text. The result is a copy and
// stays valid after the statement moves on.
func (stmt *Stmt) ColumnText(index int) string {
	if stmt.stmt == 0 {
		return ""
	}

	p := lib.Xsqlite3_column_text(stmt.conn.tls, stmt.stmt, int32(index))
	n := lib.Xsqlite3_column_bytes(stmt.conn.tls, stmt.stmt, int32(index))
	if p == 0 || n <= 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(p)), n))
}

// ColumnBlob returns a copy of the value at index as bytes. NULL reads as
// nil and a zero-length blob as an empty slice.
func (stmt *Stmt) ColumnBlob(index int) []byte {
	if stmt.stmt == 0 {
		return nil
	}

	p := lib.Xsqlite3_column_blob(stmt.conn.tls, stmt.stmt, int32(index))
	n := lib.Xsqlite3_column_bytes(stmt.conn.tls, stmt.stmt, int32(index))
	if p == 0 || n <= 0 {
		if stmt.ColumnIsNull(index) {
			return nil
		}
		return []byte{}
	}

	value := make([]byte, n)
	copy(value, unsafe.Slice((*byte)(unsafe.Pointer(p)), n))
	return value
}

// ColumnBool returns whether the value at index is a non-zero integer.
func (stmt *Stmt) ColumnBool(index int) bool {
	return stmt.ColumnInt64(index) != 0
}

// ColumnInt returns the value at index as an int.
func (stmt *Stmt) ColumnInt(index int) int {
	return int(stmt.ColumnInt64(index))
}

// ColumnInt32 returns the value at index as a 32-bit integer.
func (stmt *Stmt) ColumnInt32(index int) int32 {
	if stmt.stmt == 0 {
		return 0
	}
	return lib.Xsqlite3_column_int(stmt.conn.tls, stmt.stmt, int32(index))
}

// ColumnInt64 returns the value at index as a 64-bit integer.
func (stmt *Stmt) ColumnInt64(index int) int64 {
	if stmt.stmt == 0 {
		return 0
	}
	return lib.Xsqlite3_column_int64(stmt.conn.tls, stmt.stmt, int32(index))
}

// ColumnFloat64 returns the value at index as a double.
func (stmt *Stmt) ColumnFloat64(index int) float64 {
	if stmt.stmt == 0 {
		return 0
	}
	return lib.Xsqlite3_column_double(stmt.conn.tls, stmt.stmt, int32(index))
}

// columnValue returns the value at index as the Go type matching its
// storage class.
func (stmt *Stmt) columnValue(index int) any {
	switch stmt.ColumnType(index) {
	case TypeInteger:
		return stmt.ColumnInt64(index)
	case TypeFloat:
		return stmt.ColumnFloat64(index)
	case TypeText:
		return stmt.ColumnText(index)
	case TypeBlob:
		return stmt.ColumnBlob(index)
	default:
		return nil
	}
}

// bindResult turns a binding result code into an error. Binding failures
// carry only the generic text of the code.
func (stmt *Stmt) bindResult(index int, rc int32) error {
	if rc == lib.SQLITE_OK {
		return nil
	}
	return &Error{
		Kind:        ErrBinding,
		Code:        int(rc),
		Message:     fmt.Sprintf("parameter %d: %s", index, stmt.conn.errstr(rc)),
		SQL:         stmt.sql,
		StatementID: stmt.id,
	}
}

func (stmt *Stmt) nomemError(err error) *Error {
	return &Error{
		Kind: ErrBinding, Code: lib.SQLITE_NOMEM, Message: err.Error(),
		SQL: stmt.sql, StatementID: stmt.id,
	}
}
