package sqlitec

import (
	"fmt"
	"time"
)

// QueryOrExecResult represents the result for QueryOrExec.
type QueryOrExecResult struct {
	Time         time.Duration
	LastInsertID int64
	RowsAffected int64
	Columns      []string
	Types        []string
	Rows         [][]any
}

// IsQuery reports whether the statement returned a result set, even an
// empty one.
func (r *QueryOrExecResult) IsQuery() bool {
	return len(r.Columns) > 0
}

// QueryOrExec runs the first statement of sql from start to finish and
// returns its result for both write and read statements.
//
// Values are read as the Go type matching their storage class: int64,
// float64, string, []byte or nil.
func (conn *Conn) QueryOrExec(sql string) (*QueryOrExecResult, error) {
	start := time.Now()

	stmt, err := conn.Prepare(sql)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	result := &QueryOrExecResult{}
	columnCount := stmt.ColumnCount()

	if columnCount == 0 {
		if err := stepAll(stmt); err != nil {
			return nil, err
		}
		result.LastInsertID = conn.LastInsertRowID()
		result.RowsAffected = conn.Changes()
		result.Time = time.Since(start)
		return result, nil
	}

	result.Columns = make([]string, columnCount)
	result.Types = make([]string, columnCount)
	result.Rows = [][]any{}
	for i := range columnCount {
		result.Columns[i] = stmt.ColumnName(i)
		result.Types[i] = stmt.ColumnDeclType(i)
	}

	for {
		hasRow, err := stmt.Step()
		if err != nil {
			return nil, err
		}
		if !hasRow {
			break
		}

		row := make([]any, columnCount)
		for i := range columnCount {
			row[i] = stmt.columnValue(i)
		}
		result.Rows = append(result.Rows, row)
	}

	result.Time = time.Since(start)
	return result, nil
}

func stepAll(stmt *Stmt) error {
	for {
		hasRow, err := stmt.Step()
		if err != nil {
			return fmt.Errorf("failed to run %q: %w", stmt.sql, err)
		}
		if !hasRow {
			return nil
		}
	}
}
