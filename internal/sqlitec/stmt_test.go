package sqlitec

import (
	"bytes"
	"errors"
	"testing"

	"github.com/nsqlite/nsqlitec/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lib "modernc.org/sqlite/lib"
)

func TestPrepare(t *testing.T) {
	t.Run("SyntaxError", func(t *testing.T) {
		conn := openMemory(t)

		stmt, err := conn.Prepare("SELEC 1")
		assert.Nil(t, stmt)
		assert.ErrorIs(t, err, ErrPrepare)

		var sqlErr *Error
		require.True(t, errors.As(err, &sqlErr))
		assert.Equal(t, lib.SQLITE_ERROR, sqlErr.PrimaryCode())
		assert.Equal(t, "SELEC 1", sqlErr.SQL)
		assert.NotZero(t, sqlErr.StatementID)
		assert.Contains(t, sqlErr.Message, "syntax error")
	})

	t.Run("MissingTable", func(t *testing.T) {
		conn := openMemory(t)

		_, err := conn.Prepare("SELECT * FROM nope")
		assert.ErrorIs(t, err, ErrPrepare)
		assert.Contains(t, err.Error(), "no such table: nope")
	})

	t.Run("EmptySQL", func(t *testing.T) {
		conn := openMemory(t)

		for _, sql := range []string{"", "   ", "-- only a comment"} {
			_, err := conn.Prepare(sql)
			assert.ErrorIs(t, err, ErrPrepare)

			var sqlErr *Error
			require.True(t, errors.As(err, &sqlErr))
			assert.Equal(t, lib.SQLITE_MISUSE, sqlErr.Code)
		}
	})

	t.Run("PrepareBytes", func(t *testing.T) {
		conn := openMemory(t)

		// The view is not NUL terminated and is modified right after the call.
		buf := []byte("SELECT 'view'XXXX")
		stmt, err := conn.PrepareBytes(buf[:13])
		require.NoError(t, err)
		defer stmt.Close()
		copy(buf, "garbage garbage")

		hasRow, err := stmt.Step()
		require.NoError(t, err)
		require.True(t, hasRow)
		assert.Equal(t, "view", stmt.ColumnText(0))
		assert.Equal(t, "SELECT 'view'", stmt.SQL())
	})

	t.Run("Persistent", func(t *testing.T) {
		conn := openMemory(t)

		stmt, err := conn.Prepare("SELECT 1", WithPersistent())
		require.NoError(t, err)
		defer stmt.Close()
		assert.True(t, stmt.StepCritical())
	})

	t.Run("IDsIncrease", func(t *testing.T) {
		conn := openMemory(t)

		first, err := conn.Prepare("SELECT 1")
		require.NoError(t, err)
		defer first.Close()
		second, err := conn.Prepare("SELECT 2")
		require.NoError(t, err)
		defer second.Close()

		assert.Greater(t, second.ID(), first.ID())
	})

	t.Run("SwappableIDs", func(t *testing.T) {
		previous := nextStatementID
		nextStatementID = func() uint64 { return 42 }
		defer func() {
			nextStatementID = previous
		}()

		conn := openMemory(t)
		stmt, err := conn.Prepare("SELECT 1")
		require.NoError(t, err)
		defer stmt.Close()
		assert.Equal(t, uint64(42), stmt.ID())
	})

	t.Run("Metadata", func(t *testing.T) {
		conn := openMemory(t)
		mustExec(t, conn, "CREATE TABLE t (id INTEGER PRIMARY KEY, name TEXT)")

		read, err := conn.Prepare("SELECT id, name AS label, 1 + 1 FROM t")
		require.NoError(t, err)
		defer read.Close()
		assert.True(t, read.ReadOnly())
		assert.Equal(t, 3, read.ColumnCount())
		assert.Equal(t, "id", read.ColumnName(0))
		assert.Equal(t, "label", read.ColumnName(1))
		assert.Equal(t, "INTEGER", read.ColumnDeclType(0))
		assert.Equal(t, "TEXT", read.ColumnDeclType(1))
		assert.Equal(t, "", read.ColumnDeclType(2))
		assert.Equal(t, 0, read.BindParameterCount())

		write, err := conn.Prepare("INSERT INTO t (id, name) VALUES (?, ?)")
		require.NoError(t, err)
		defer write.Close()
		assert.False(t, write.ReadOnly())
		assert.Equal(t, 0, write.ColumnCount())
		assert.Equal(t, 2, write.BindParameterCount())
	})
}

func TestStmt(t *testing.T) {
	t.Run("StateTransitions", func(t *testing.T) {
		conn := openMemory(t)

		stmt, err := conn.Prepare("SELECT 1")
		require.NoError(t, err)
		defer stmt.Close()
		assert.Equal(t, StatePrepared, stmt.State())

		hasRow, err := stmt.Step()
		assert.NoError(t, err)
		assert.True(t, hasRow)
		assert.Equal(t, StateHasRow, stmt.State())

		hasRow, err = stmt.Step()
		assert.NoError(t, err)
		assert.False(t, hasRow)
		assert.Equal(t, StateCompleted, stmt.State())

		stmt.Reset()
		assert.Equal(t, StatePrepared, stmt.State())

		hasRow, err = stmt.Step()
		assert.NoError(t, err)
		assert.True(t, hasRow)
	})

	t.Run("StepFalseOncePerCycle", func(t *testing.T) {
		conn := openMemory(t)
		mustExec(t, conn, "CREATE TABLE t (id INTEGER PRIMARY KEY)")
		mustExec(t, conn, "INSERT INTO t DEFAULT VALUES")
		mustExec(t, conn, "INSERT INTO t DEFAULT VALUES")

		stmt, err := conn.Prepare("SELECT id FROM t ORDER BY id")
		require.NoError(t, err)
		defer stmt.Close()

		for cycle := 0; cycle < 2; cycle++ {
			ids := []int64{}
			falses := 0
			for {
				hasRow, err := stmt.Step()
				require.NoError(t, err)
				if !hasRow {
					falses++
					break
				}
				ids = append(ids, stmt.ColumnInt64(0))
			}
			assert.Equal(t, []int64{1, 2}, ids)
			assert.Equal(t, 1, falses)
			assert.Equal(t, StateCompleted, stmt.State())
			stmt.Reset()
		}
	})

	t.Run("ResetKeepsBindings", func(t *testing.T) {
		conn := openMemory(t)

		stmt, err := conn.Prepare("SELECT ?")
		require.NoError(t, err)
		defer stmt.Close()
		require.NoError(t, stmt.BindInt64(1, 7))

		assert.True(t, stmt.StepCritical())
		assert.Equal(t, int64(7), stmt.ColumnInt64(0))

		stmt.Reset()
		assert.True(t, stmt.StepCritical())
		assert.Equal(t, int64(7), stmt.ColumnInt64(0))

		stmt.Reset()
		require.NoError(t, stmt.ClearBindings())
		assert.True(t, stmt.StepCritical())
		assert.True(t, stmt.ColumnIsNull(0))
	})

	t.Run("ReusedInsert", func(t *testing.T) {
		conn := openMemory(t)
		mustExec(t, conn, "CREATE TABLE t (id INTEGER PRIMARY KEY, name TEXT)")

		stmt, err := conn.Prepare("INSERT INTO t (name) VALUES (?)")
		require.NoError(t, err)
		defer stmt.Close()

		for _, name := range []string{"a", "b", "c"} {
			require.NoError(t, stmt.BindText(1, name))
			require.NoError(t, stmt.Execute())
			assert.Equal(t, StateCompleted, stmt.State())
			stmt.Reset()
		}
		assert.Equal(t, int64(3), conn.LastInsertRowID())
		assert.Equal(t, int64(3), countRows(t, conn, "t"))
	})

	t.Run("ExecuteUnexpectedResult", func(t *testing.T) {
		conn := openMemory(t)

		stmt, err := conn.Prepare("SELECT 1")
		require.NoError(t, err)
		defer stmt.Close()

		err = stmt.Execute()
		assert.ErrorIs(t, err, ErrUnexpectedResult)
		assert.Equal(t, StateHasRow, stmt.State())
	})

	t.Run("ConstraintViolation", func(t *testing.T) {
		conn := openMemory(t)
		mustExec(t, conn, "CREATE TABLE t (id INTEGER PRIMARY KEY, email TEXT UNIQUE)")
		mustExec(t, conn, "INSERT INTO t (id, email) VALUES (1, 'a@b.c')")

		stmt, err := conn.Prepare("INSERT INTO t (id, email) VALUES (?, ?)")
		require.NoError(t, err)
		defer stmt.Close()

		require.NoError(t, stmt.BindInt64(1, 1))
		require.NoError(t, stmt.BindText(2, "x@y.z"))
		err = stmt.Execute()
		assert.ErrorIs(t, err, ErrStep)
		assert.Equal(t, StateError, stmt.State())

		var sqlErr *Error
		require.True(t, errors.As(err, &sqlErr))
		assert.Equal(t, 1555, sqlErr.Code) // SQLITE_CONSTRAINT_PRIMARYKEY
		assert.Equal(t, lib.SQLITE_CONSTRAINT, sqlErr.PrimaryCode())
		assert.Equal(t, stmt.ID(), sqlErr.StatementID)
		assert.Contains(t, sqlErr.Message, "t.id")

		stmt.Reset()
		assert.Equal(t, StatePrepared, stmt.State())

		require.NoError(t, stmt.BindInt64(1, 2))
		require.NoError(t, stmt.BindText(2, "a@b.c"))
		err = stmt.Execute()
		require.True(t, errors.As(err, &sqlErr))
		assert.Equal(t, 2067, sqlErr.Code) // SQLITE_CONSTRAINT_UNIQUE

		stmt.Reset()
		require.NoError(t, stmt.BindText(2, "d@e.f"))
		assert.NoError(t, stmt.Execute())
	})

	t.Run("BindOutOfRange", func(t *testing.T) {
		conn := openMemory(t)

		stmt, err := conn.Prepare("SELECT ?")
		require.NoError(t, err)
		defer stmt.Close()

		for _, index := range []int{0, 2} {
			err := stmt.BindInt64(index, 1)
			assert.ErrorIs(t, err, ErrBinding)

			var sqlErr *Error
			require.True(t, errors.As(err, &sqlErr))
			assert.Equal(t, lib.SQLITE_RANGE, sqlErr.Code)
			assert.Equal(t, "SELECT ?", sqlErr.SQL)
		}
	})

	t.Run("DoubleClose", func(t *testing.T) {
		conn := openMemory(t)

		stmt, err := conn.Prepare("SELECT 1")
		require.NoError(t, err)
		stmt.Close()
		stmt.Close()

		_, err = stmt.Step()
		assert.ErrorIs(t, err, ErrStep)
		assert.ErrorIs(t, stmt.BindNull(1), ErrBinding)
		assert.ErrorIs(t, stmt.ClearBindings(), ErrBinding)
		assert.NotPanics(t, stmt.Reset)
	})

	t.Run("StepCriticalTerminates", func(t *testing.T) {
		captureFaults(t)

		buf := &bytes.Buffer{}
		conn := openMemory(t, WithLogger(log.NewLogger(buf)))
		mustExec(t, conn, "CREATE TABLE t (id INTEGER PRIMARY KEY)")
		mustExec(t, conn, "INSERT INTO t (id) VALUES (1)")

		stmt, err := conn.Prepare("INSERT INTO t (id) VALUES (1)")
		require.NoError(t, err)
		defer stmt.Close()

		fault := recoverFault(func() {
			stmt.StepCritical()
		})
		require.NotNil(t, fault)
		assert.Equal(t, stmt.ID(), fault.StatementID)
		assert.Equal(t, stmt.SQL(), fault.SQL)
		assert.ErrorIs(t, fault, ErrStep)

		output := buf.String()
		assert.Contains(t, output, `"level":"ERROR"`)
		assert.Contains(t, output, `"msg":"critical statement failed"`)
	})

	t.Run("ExecuteCriticalTerminatesOnRow", func(t *testing.T) {
		captureFaults(t)
		conn := openMemory(t)

		stmt, err := conn.Prepare("SELECT 1")
		require.NoError(t, err)
		defer stmt.Close()

		fault := recoverFault(stmt.ExecuteCritical)
		require.NotNil(t, fault)
		assert.ErrorIs(t, fault, ErrUnexpectedResult)
	})

	t.Run("ExecuteCriticalSucceeds", func(t *testing.T) {
		captureFaults(t)
		conn := openMemory(t)
		mustExec(t, conn, "CREATE TABLE t (id INTEGER PRIMARY KEY)")

		stmt, err := conn.Prepare("INSERT INTO t DEFAULT VALUES")
		require.NoError(t, err)
		defer stmt.Close()

		assert.Nil(t, recoverFault(stmt.ExecuteCritical))
		assert.Equal(t, int64(1), countRows(t, conn, "t"))
	})
}
