package sqlitec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T, options ...ConnOption) *Conn {
	t.Helper()

	conn, err := Open(":memory:", DispositionOpenOrCreate, OpenReadWrite, options...)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

func mustExec(t *testing.T, conn *Conn, sql string) {
	t.Helper()
	require.NoError(t, conn.Exec(sql))
}

func countRows(t *testing.T, conn *Conn, table string) int64 {
	t.Helper()

	stmt, err := conn.Prepare("SELECT count(*) FROM " + table)
	require.NoError(t, err)
	defer stmt.Close()

	hasRow, err := stmt.Step()
	require.NoError(t, err)
	require.True(t, hasRow)
	return stmt.ColumnInt64(0)
}

// captureFaults makes fail-fast paths panic with the fault instead of
// exiting, for the rest of the test.
func captureFaults(t *testing.T) {
	t.Helper()

	previous := terminate
	terminate = func(fault *FatalStorageFault) {
		panic(fault)
	}
	t.Cleanup(func() {
		terminate = previous
	})
}

// recoverFault runs fn and returns the fault it raised, if any.
func recoverFault(fn func()) (fault *FatalStorageFault) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		f, ok := r.(*FatalStorageFault)
		if !ok {
			panic(r)
		}
		fault = f
	}()

	fn()
	return nil
}
