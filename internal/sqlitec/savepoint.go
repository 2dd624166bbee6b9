package sqlitec

import (
	"fmt"

	"github.com/nsqlite/nsqlitec/internal/log"
	"github.com/orsinium-labs/enum"
)

// SavepointState is the outcome of a Savepoint.
type SavepointState enum.Member[string]

var (
	// SavepointInProgress is the state of a savepoint until it is finished.
	SavepointInProgress = SavepointState{Value: "in-progress"}
	// SavepointCommitted means the savepoint was released.
	SavepointCommitted = SavepointState{Value: "committed"}
	// SavepointRolledBack means the changes of the savepoint were undone.
	SavepointRolledBack = SavepointState{Value: "rolled-back"}

	// SavepointStates lists every SavepointState, for parsing and display.
	SavepointStates = enum.New(
		SavepointInProgress,
		SavepointCommitted,
		SavepointRolledBack,
	)
)

// Savepoint is a named, nestable transaction scope.
//
// A savepoint that is neither committed nor rolled back when closed is
// rolled back. The release and rollback statements are compiled up front,
// so finishing a savepoint can only fail on the engine side, and such a
// failure terminates the process.
//
// https://www.sqlite.org/lang_savepoint.html
type Savepoint struct {
	conn     *Conn
	name     string
	state    SavepointState
	rollback *Stmt
	release  *Stmt
}

// Savepoint begins a savepoint called name on the connection.
//
// The name is interpolated between brackets, so it must not contain "]".
// Names of savepoints nested on one connection must be unique.
func (conn *Conn) Savepoint(name string) (*Savepoint, error) {
	ident := "[" + name + "]"

	begin, err := conn.Prepare("SAVEPOINT " + ident)
	if err != nil {
		return nil, err
	}
	defer begin.Close()

	rollback, err := conn.Prepare("ROLLBACK TO "+ident, WithPersistent())
	if err != nil {
		return nil, err
	}

	release, err := conn.Prepare("RELEASE "+ident, WithPersistent())
	if err != nil {
		rollback.Close()
		return nil, err
	}

	if err := begin.Execute(); err != nil {
		rollback.Close()
		release.Close()
		return nil, fmt.Errorf("failed to begin savepoint %q: %w", name, err)
	}

	conn.logger.InfoNs(log.NsSQL, "savepoint started", log.KV{"savepoint": name})
	return &Savepoint{
		conn:     conn,
		name:     name,
		state:    SavepointInProgress,
		rollback: rollback,
		release:  release,
	}, nil
}

// Name returns the name the savepoint was started with.
func (sp *Savepoint) Name() string {
	return sp.name
}

// State returns the outcome of the savepoint.
func (sp *Savepoint) State() SavepointState {
	return sp.state
}

// Commit releases the savepoint, making its changes part of the enclosing
// transaction, or durable when it is the outermost one. It does nothing
// once the savepoint is finished.
func (sp *Savepoint) Commit() {
	if sp.state != SavepointInProgress {
		return
	}

	sp.conn.logger.InfoNs(log.NsSQL, "committing savepoint", log.KV{"savepoint": sp.name})
	sp.release.ExecuteCritical()
	sp.state = SavepointCommitted
}

// Rollback undoes every change made since the savepoint began and ends it.
// The savepoint is released after the rollback, so it is gone from the
// engine's savepoint stack and a raw ROLLBACK TO naming it fails.
// When the connection has already left its transaction, because it was
// closed or the engine ended the transaction, there is nothing left to undo
// and the savepoint is only marked rolled back.
// It does nothing once the savepoint is finished.
func (sp *Savepoint) Rollback() {
	if sp.state != SavepointInProgress {
		return
	}

	if sp.conn.closed() {
		// Closing the connection rolled back whatever was pending.
		sp.conn.logger.WarnNs(log.NsSQL, "savepoint outlived its connection", log.KV{"savepoint": sp.name})
		sp.state = SavepointRolledBack
		return
	}
	if sp.conn.AutocommitEnabled() {
		sp.conn.logger.WarnNs(log.NsSQL, "savepoint already ended by the engine", log.KV{"savepoint": sp.name})
		sp.state = SavepointRolledBack
		return
	}

	sp.conn.logger.InfoNs(log.NsSQL, "rolling back savepoint", log.KV{"savepoint": sp.name})
	sp.rollback.ExecuteCritical()
	// ROLLBACK TO leaves the savepoint open, release it too.
	sp.release.ExecuteCritical()
	sp.state = SavepointRolledBack
}

// Close rolls back the savepoint unless it was finished, then finalizes its
// statements. Calling Close more than once is a no-op.
func (sp *Savepoint) Close() {
	sp.Rollback()
	sp.rollback.Close()
	sp.release.Close()
}

// WithSavepoint runs fn inside a savepoint called name. The savepoint is
// committed when fn returns nil and rolled back when it returns an error or
// panics.
func WithSavepoint(conn *Conn, name string, fn func(sp *Savepoint) error) error {
	sp, err := conn.Savepoint(name)
	if err != nil {
		return err
	}
	defer sp.Close()

	if err := fn(sp); err != nil {
		return err
	}
	sp.Commit()
	return nil
}
