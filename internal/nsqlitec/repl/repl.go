package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nsqlite/nsqlitec/internal/log"
	"github.com/nsqlite/nsqlitec/internal/nsqlitec/config"
	"github.com/nsqlite/nsqlitec/internal/nsqlitec/stats"
	"github.com/nsqlite/nsqlitec/internal/sqlitec"
	"github.com/peterh/liner"
)

type Repl struct {
	conf        config.Config
	conn        *sqlitec.Conn
	logger      log.Logger
	ctx         context.Context
	stop        context.CancelFunc
	out         io.Writer
	stats       *stats.SessionStats
	savepoints  []*sqlitec.Savepoint
	historyPath string
}

func NewRepl(
	ctx context.Context,
	stop context.CancelFunc,
	conf config.Config,
	conn *sqlitec.Conn,
	logger log.Logger,
	out io.Writer,
) *Repl {
	return &Repl{
		conf:        conf,
		conn:        conn,
		logger:      logger,
		ctx:         ctx,
		stop:        stop,
		out:         out,
		stats:       stats.NewSessionStats(),
		historyPath: filepath.Join(os.TempDir(), ".nsqlitec_history"),
	}
}

func (r *Repl) Start() error {
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "Connected to %s\n", r.conf.Target)
	fmt.Fprintln(r.out, `Enter ".help" for usage hints and ".quit" or "CTRL+C" to quit`)
	fmt.Fprintln(r.out)

	for {
		select {
		case <-r.ctx.Done():
			return nil
		default:
			input := r.prompt()
			if input == "" {
				continue
			}
			if !r.Execute(input) {
				r.Shutdown()
				return nil
			}
		}
	}
}

// Execute runs one line of input and reports whether the REPL should keep
// reading.
func (r *Repl) Execute(input string) bool {
	input = strings.TrimSpace(input)
	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "":
		return true
	case "exit", ".exit", ".quit":
		return false
	case "clear", ".clear":
		cmdClear(r)
	case "help", ".help":
		cmdHelp(r)
	case ".tables":
		cmdQuery(r, "SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	case ".count":
		cmdCount(r, arg)
	case ".stats":
		cmdStats(r, arg)
	case ".lastid":
		cmdLastID(r)
	case ".savepoint":
		cmdSavepoint(r, arg)
	case ".commit":
		cmdCommit(r)
	case ".rollback":
		cmdRollback(r)
	default:
		if strings.HasPrefix(input, ".") {
			fmt.Fprintln(r.out, "Unknown command, type .help for usage hints")
			return true
		}
		cmdQuery(r, input)
	}

	return true
}

// Shutdown rolls back every savepoint still in progress, innermost first,
// and stops the REPL.
func (r *Repl) Shutdown() {
	for len(r.savepoints) > 0 {
		sp := r.popSavepoint()
		r.logger.WarnNs(log.NsCLI, "rolling back savepoint left open", log.KV{"savepoint": sp.Name()})
		sp.Close()
	}
	r.stop()
}

// currentSavepoint returns the innermost savepoint in progress, or nil.
func (r *Repl) currentSavepoint() *sqlitec.Savepoint {
	if len(r.savepoints) == 0 {
		return nil
	}
	return r.savepoints[len(r.savepoints)-1]
}

// dropEndedSavepoints forgets the savepoints in progress once the connection
// is out of any transaction, which happens when a statement such as
// INSERT OR ROLLBACK makes the engine abort it.
func (r *Repl) dropEndedSavepoints() {
	if len(r.savepoints) == 0 || !r.conn.AutocommitEnabled() {
		return
	}

	for len(r.savepoints) > 0 {
		sp := r.popSavepoint()
		sp.Close()
		r.stats.IncRollbacks()
		fmt.Fprintf(r.out, "Savepoint %s was rolled back by the engine\n", sp.Name())
	}
}

func (r *Repl) popSavepoint() *sqlitec.Savepoint {
	sp := r.savepoints[len(r.savepoints)-1]
	r.savepoints = r.savepoints[:len(r.savepoints)-1]
	return sp
}

// label returns the prompt label, which shows the tail of the innermost
// savepoint name while one is in progress.
func (r *Repl) label() string {
	sp := r.currentSavepoint()
	if sp == nil {
		return "NSQLitec> "
	}

	name := sp.Name()
	if len(name) > 7 {
		name = name[len(name)-7:]
	}
	return fmt.Sprintf("NSQLitec(%s)> ", name)
}

// prompt shows the prompt and reads the input from the user.
func (r *Repl) prompt() string {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(cmdHelpCompleter)

	if file, err := os.Open(r.historyPath); err == nil {
		_, _ = line.ReadHistory(file)
		file.Close()
	}

	prompt, err := line.Prompt(r.label())
	if err != nil {
		if err == liner.ErrPromptAborted || err == io.EOF {
			fmt.Fprintln(r.out, "CTRL+C pressed, exiting...")
			return ".quit"
		}
		return ""
	}

	line.AppendHistory(prompt)
	if file, err := os.Create(r.historyPath); err == nil {
		_, _ = line.WriteHistory(file)
		file.Close()
	}

	return strings.TrimSpace(prompt)
}
