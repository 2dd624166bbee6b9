package repl

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/nsqlitec/internal/nsqlitec/styled"
	"github.com/nsqlite/nsqlitec/internal/util/numutil"
)

const defaultStatsMinutes = 5

func cmdStats(r *Repl, arg string) {
	statsQty := defaultStatsMinutes
	if arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			fmt.Fprintln(r.out, "Usage: .stats [minutes]")
			return
		}
		statsQty = n
	}

	stats := r.stats.Load(statsQty)

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Minute (UTC)", "Reads", "Writes", "Savepoints", "Commits", "Rollbacks", "Errors"})

	rows := []table.Row{}
	for _, stat := range stats.Stats {
		rows = append(rows, table.Row{
			stat.Minute.Format("2006-01-02 15:04"),
			numutil.IntWithCommas(stat.Reads),
			numutil.IntWithCommas(stat.Writes),
			numutil.IntWithCommas(stat.Savepoints),
			numutil.IntWithCommas(stat.Commits),
			numutil.IntWithCommas(stat.Rollbacks),
			numutil.IntWithCommas(stat.Errors),
		})
	}
	slices.Reverse(rows)
	tw.AppendRows(rows)

	tw.AppendFooter(table.Row{
		"Total",
		numutil.IntWithCommas(stats.Totals.Reads),
		numutil.IntWithCommas(stats.Totals.Writes),
		numutil.IntWithCommas(stats.Totals.Savepoints),
		numutil.IntWithCommas(stats.Totals.Commits),
		numutil.IntWithCommas(stats.Totals.Rollbacks),
		numutil.IntWithCommas(stats.Totals.Errors),
	})

	fmt.Fprintln(r.out, tw.Render())
	styled.DimmedColor().Fprintf(r.out, "Showing the last %d minutes of stats\n", statsQty)
	styled.DimmedColor().Fprintf(r.out, "Uptime: %s\n", stats.Uptime)
	fmt.Fprintln(r.out)
}
