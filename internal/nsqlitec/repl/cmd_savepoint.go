package repl

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/nsqlite/nsqlitec/internal/log"
)

func cmdSavepoint(r *Repl, name string) {
	if name == "" {
		name = uuid.NewString()
	}

	sp, err := r.conn.Savepoint(name)
	if err != nil {
		printError(r, err)
		return
	}

	r.savepoints = append(r.savepoints, sp)
	r.stats.IncSavepoints()
	r.logger.InfoNs(log.NsCLI, "savepoint opened", log.KV{
		"savepoint": name,
		"depth":     len(r.savepoints),
	})
	fmt.Fprintf(r.out, "Savepoint %s started\n", name)
}

func cmdCommit(r *Repl) {
	if r.currentSavepoint() == nil {
		fmt.Fprintln(r.out, "No savepoint in progress")
		return
	}

	sp := r.popSavepoint()
	sp.Commit()
	sp.Close()
	r.stats.IncCommits()
	fmt.Fprintf(r.out, "Savepoint %s committed\n", sp.Name())
}

func cmdRollback(r *Repl) {
	if r.currentSavepoint() == nil {
		fmt.Fprintln(r.out, "No savepoint in progress")
		return
	}

	sp := r.popSavepoint()
	sp.Rollback()
	sp.Close()
	r.stats.IncRollbacks()
	fmt.Fprintf(r.out, "Savepoint %s rolled back\n", sp.Name())
}
