package sqlitec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryOrExec(t *testing.T) {
	conn := openMemory(t)

	t.Run("Write", func(t *testing.T) {
		res, err := conn.QueryOrExec("CREATE TABLE t (id INTEGER PRIMARY KEY, name TEXT, score REAL, raw BLOB)")
		require.NoError(t, err)
		assert.False(t, res.IsQuery())

		res, err = conn.QueryOrExec("INSERT INTO t (name, score, raw) VALUES ('a', 1.5, x'0102'), (NULL, 2, NULL)")
		require.NoError(t, err)
		assert.False(t, res.IsQuery())
		assert.Equal(t, int64(2), res.LastInsertID)
		assert.Equal(t, int64(2), res.RowsAffected)
	})

	t.Run("Read", func(t *testing.T) {
		res, err := conn.QueryOrExec("SELECT id, name, score, raw FROM t ORDER BY id")
		require.NoError(t, err)
		assert.True(t, res.IsQuery())
		assert.Equal(t, []string{"id", "name", "score", "raw"}, res.Columns)
		assert.Equal(t, []string{"INTEGER", "TEXT", "REAL", "BLOB"}, res.Types)
		require.Len(t, res.Rows, 2)

		assert.Equal(t, []any{int64(1), "a", 1.5, []byte{1, 2}}, res.Rows[0])
		assert.Equal(t, []any{int64(2), nil, 2.0, nil}, res.Rows[1])
	})

	t.Run("EmptyRead", func(t *testing.T) {
		res, err := conn.QueryOrExec("SELECT id FROM t WHERE id > 100")
		require.NoError(t, err)
		assert.True(t, res.IsQuery())
		assert.Empty(t, res.Rows)
	})

	t.Run("Errors", func(t *testing.T) {
		_, err := conn.QueryOrExec("SELECT * FROM nope")
		assert.ErrorIs(t, err, ErrPrepare)

		_, err = conn.QueryOrExec("INSERT INTO t (id) VALUES (1)")
		assert.ErrorIs(t, err, ErrStep)
	})
}
