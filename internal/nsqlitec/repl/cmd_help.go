package repl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/nsqlitec/internal/nsqlitec/styled"
	"github.com/nsqlite/nsqlitec/internal/util/sysutil"
)

type dotCmd struct {
	name         string
	autocomplete string
	help         string
	args         string
}

func cmdHelpCommands() []dotCmd {
	cmds := []dotCmd{
		{name: ".count [table_name]", autocomplete: ".count", help: "Count the number of rows in a table", args: "table_name (required)"},
		{name: ".stats [minutes]", autocomplete: ".stats", help: "Shows the session stats of last specified minutes", args: "minutes (optional, default 5)"},
		{name: ".savepoint [name]", autocomplete: ".savepoint", help: "Begin a savepoint, nested inside the current one if any", args: "name (optional, random by default)"},

		{name: ".commit", autocomplete: ".commit", help: "Commit the innermost savepoint"},
		{name: ".rollback", autocomplete: ".rollback", help: "Roll back the innermost savepoint"},
		{name: ".lastid", autocomplete: ".lastid", help: "Show the last inserted rowid and the rows changed by the last write"},
		{name: ".tables", autocomplete: ".tables", help: "List all tables in the database"},
		{name: ".clear", autocomplete: ".clear", help: "Clear the terminal screen"},
		{name: ".help", autocomplete: ".help", help: "Show the help message"},
		{name: ".quit", autocomplete: ".quit", help: "Exit the application, rolling back open savepoints"},
		{name: ".exit", autocomplete: ".exit", help: "Exit the application, rolling back open savepoints"},
		{name: "CTRL+c", help: "Exit the application"},
	}

	sort.Slice(cmds, func(i, j int) bool {
		return cmds[i].name < cmds[j].name
	})

	return cmds
}

func cmdHelp(r *Repl) {
	fmt.Fprintln(r.out, "Available commands:")
	cmds := cmdHelpCommands()

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Command", "Description", "Arguments"})

	for _, cmd := range cmds {
		tw.AppendRow(table.Row{cmd.name, cmd.help, cmd.args})
	}

	fmt.Fprintln(r.out, tw.Render())
}

func cmdClear(r *Repl) {
	sysutil.ClearTerminal(r.out)
}

func cmdHelpCompleter(line string) []string {
	suggestions := []string{
		"SELECT ",
		"SELECT * FROM ",
		"SELECT COUNT(*) FROM ",
		"INSERT INTO ",
		"UPDATE ",
		"DELETE FROM ",
		"CREATE TABLE ",
		"DROP TABLE ",
		"ALTER TABLE ",
	}

	for _, cmd := range cmdHelpCommands() {
		if cmd.autocomplete != "" {
			suggestions = append(suggestions, cmd.autocomplete)
		}
	}

	results := []string{}
	for _, suggestion := range suggestions {
		if strings.HasPrefix(strings.ToLower(suggestion), strings.ToLower(line)) {
			results = append(results, suggestion)
		}
	}

	return results
}
