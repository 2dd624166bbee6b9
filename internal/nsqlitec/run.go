package nsqlitec

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nsqlite/nsqlitec/internal/log"
	"github.com/nsqlite/nsqlitec/internal/nsqlitec/config"
	"github.com/nsqlite/nsqlitec/internal/nsqlitec/repl"
	"github.com/nsqlite/nsqlitec/internal/sqlitec"
	"github.com/nsqlite/nsqlitec/internal/version"
)

// shutdownGrace is how long Run waits for the REPL to finish the input it
// is running once the context is done.
const shutdownGrace = 2 * time.Second

// Run runs the nsqlitec shell.
func Run(ctx context.Context) error {
	conf := config.MustParse(os.Args)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	level := slog.LevelWarn
	if conf.Verbose {
		level = slog.LevelDebug
	}
	logger := log.NewLoggerWithLevel(os.Stderr, level)

	fmt.Println(version.ShellVersion())

	conn, err := sqlitec.Open(
		conf.Target, conf.ParsedDisposition, conf.OpenFlags(), sqlitec.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	rp := repl.NewRepl(ctx, stop, conf, conn, logger, os.Stdout)
	done := make(chan struct{})
	go func() {
		defer close(done)
		serveRepl(rp, conn)
	}()

	<-ctx.Done()
	select {
	case <-done:
	case <-time.After(shutdownGrace):
		// The connection belongs to the REPL goroutine, which is still busy.
		logger.WarnNs(log.NsCLI, "shell did not stop in time, leaving the connection open", log.KV{
			"target": conf.Target,
		})
	}
	fmt.Printf("\nGoodbye!\n\n")
	return nil
}

// serveRepl runs rp until it stops, rolls back the savepoints it left open
// and closes conn. conn is only used from the goroutine running serveRepl.
func serveRepl(rp *repl.Repl, conn *sqlitec.Conn) {
	defer conn.Close()

	if err := rp.Start(); err != nil {
		fmt.Println(err)
	}
	rp.Shutdown()
}
