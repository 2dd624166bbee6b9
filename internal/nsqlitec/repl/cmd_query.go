package repl

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/nsqlitec/internal/log"
	"github.com/nsqlite/nsqlitec/internal/nsqlitec/styled"
	"github.com/nsqlite/nsqlitec/internal/sqlitec"
	"github.com/nsqlite/nsqlitec/internal/util/numutil"
)

func cmdQuery(r *Repl, input string) {
	if sp := r.currentSavepoint(); sp != nil && endsTransaction(input) {
		r.stats.IncErrors()
		styled.ErrorColor().Fprintf(
			r.out, "Error: savepoint %s is in progress, use .commit or .rollback to end it\n", sp.Name(),
		)
		return
	}
	defer r.dropEndedSavepoints()

	res, err := r.conn.QueryOrExec(input)
	if err != nil {
		printError(r, err)
		return
	}

	tw := styled.NewTableWriter()
	if !res.IsQuery() {
		r.stats.IncWrites()
		tw.AppendHeader(table.Row{"-", "Rows Affected", "Last Insert ID"})
		tw.AppendRow(table.Row{"OK", numutil.IntWithCommas(res.RowsAffected), res.LastInsertID})
		fmt.Fprintln(r.out, tw.Render())
		styled.DimmedColor().Fprintf(r.out, "Done in %s\n", res.Time)
		return
	}

	r.stats.IncReads()
	header := table.Row{}
	for _, col := range res.Columns {
		header = append(header, col)
	}
	tw.AppendHeader(header)

	for _, row := range res.Rows {
		values := table.Row{}
		for _, value := range row {
			values = append(values, formatValue(value))
		}
		tw.AppendRow(values)
	}

	fmt.Fprintln(r.out, tw.Render())
	styled.DimmedColor().Fprintf(
		r.out, "%s rows in %s\n", numutil.IntWithCommas(len(res.Rows)), res.Time,
	)
}

// endsTransaction reports whether input is a statement that can end the
// savepoints the shell keeps track of.
func endsTransaction(input string) bool {
	fields := strings.Fields(strings.ToUpper(strings.ReplaceAll(input, ";", " ")))
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "COMMIT", "END", "RELEASE":
		return true
	case "ROLLBACK":
		// ROLLBACK TO keeps the savepoint open.
		return !slices.Contains(fields[1:], "TO")
	}
	return false
}

// formatValue renders a value read by QueryOrExec for display.
func formatValue(value any) any {
	switch v := value.(type) {
	case nil:
		return "NULL"
	case []byte:
		return fmt.Sprintf("x'%X'", v)
	default:
		return v
	}
}

func cmdCount(r *Repl, tableName string) {
	if tableName == "" {
		fmt.Fprintln(r.out, "Usage: .count [table_name]")
		return
	}

	stmt, err := r.conn.Prepare(fmt.Sprintf(`SELECT count(*) FROM "%s"`, tableName))
	if err != nil {
		printError(r, err)
		return
	}
	defer stmt.Close()

	hasRow, err := stmt.Step()
	if err != nil {
		printError(r, err)
		return
	}
	if hasRow {
		count := sqlitec.Column[int64](stmt, 0)
		fmt.Fprintf(r.out, "%s rows in %s\n", numutil.IntWithCommas(count), tableName)
	}
}

func cmdLastID(r *Repl) {
	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Last Insert ID", "Rows Changed"})
	tw.AppendRow(table.Row{r.conn.LastInsertRowID(), numutil.IntWithCommas(r.conn.Changes())})
	fmt.Fprintln(r.out, tw.Render())
}

// printError prints err in the error color and logs it.
func printError(r *Repl, err error) {
	r.stats.IncErrors()
	var sqlErr *sqlitec.Error
	if errors.As(err, &sqlErr) {
		r.logger.DebugNs(log.NsCLI, "statement failed", log.KV{
			"stmt": sqlErr.StatementID,
			"code": sqlErr.Code,
		})
	}
	styled.ErrorColor().Fprintf(r.out, "Error: %s\n", err)
}
