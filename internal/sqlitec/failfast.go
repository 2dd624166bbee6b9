package sqlitec

import (
	"fmt"
	"os"

	"github.com/nsqlite/nsqlitec/internal/log"
)

// fatalExitCode is the process exit code after a critical statement failed.
const fatalExitCode = 2

// FatalStorageFault describes a critical statement that failed. The process
// cannot keep running once it happened, because the transaction state of the
// connection is no longer known.
type FatalStorageFault struct {
	StatementID uint64
	SQL         string
	Err         error
}

func (f *FatalStorageFault) Error() string {
	return fmt.Sprintf("critical statement #%d %q failed: %v", f.StatementID, f.SQL, f.Err)
}

func (f *FatalStorageFault) Unwrap() error {
	return f.Err
}

// terminate ends the process after a fatal storage fault. Tests replace it
// to observe the fault instead of exiting.
var terminate = func(fault *FatalStorageFault) {
	fmt.Fprintln(os.Stderr, fault.Error())
	os.Exit(fatalExitCode)
}

// failFast records the failure of a critical statement and terminates.
func (stmt *Stmt) failFast(err error) {
	stmt.conn.logger.ErrorNs(log.NsSQL, "critical statement failed", log.KV{
		"stmt":  stmt.id,
		"sql":   stmt.sql,
		"error": err.Error(),
	})
	terminate(&FatalStorageFault{
		StatementID: stmt.id,
		SQL:         stmt.sql,
		Err:         err,
	})
}
