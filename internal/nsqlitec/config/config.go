package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/nsqlite/nsqlitec/internal/sqlitec"
	"github.com/nsqlite/nsqlitec/internal/version"
)

// Config represents the configuration for nsqlitec.
type Config struct {
	Target        string `arg:"positional" help:"Database to open: a file path, :memory: or a file: URI (with --uri)" default:":memory:"`
	Disposition   string `arg:"--disposition,env:NSQLITEC_DISPOSITION" help:"What to do with the target (create-new, open-existing, open-or-create)" default:"open-or-create"`
	ReadOnly      bool   `arg:"--read-only,env:NSQLITEC_READ_ONLY" help:"Open the database in read-only mode" default:"false"`
	MultiThreaded bool   `arg:"--multi-threaded,env:NSQLITEC_MULTI_THREADED" help:"Open the connection without its own mutex" default:"false"`
	URI           bool   `arg:"--uri,env:NSQLITEC_URI" help:"Interpret the target as a file: URI" default:"false"`
	Verbose       bool   `arg:"-v,--verbose,env:NSQLITEC_VERBOSE" help:"Log every statement as it is prepared and stepped" default:"false"`

	ParsedDisposition sqlitec.OpenDisposition `arg:"-"`
}

func (Config) Version() string {
	return fmt.Sprintf("%s\n", version.ShellVersion())
}

// MustParse parses and validates the configuration from the command
// line arguments. It returns a Config struct or exits the program
// with an error.
func MustParse(args []string) Config {
	cfg := Config{}

	parser, err := arg.NewParser(
		arg.Config{},
		&cfg,
	)
	if err != nil {
		log.Fatal(err)
	}
	parser.MustParse(args[1:])

	if err := cfg.resolve(); err != nil {
		log.Fatal(err)
	}

	return cfg
}

// resolve validates the raw flags and fills the parsed fields.
func (c *Config) resolve() error {
	disposition, err := validateDisposition(c.Disposition)
	if err != nil {
		return err
	}
	c.ParsedDisposition = disposition
	return nil
}

// OpenFlags returns the open flags selected by the configuration.
func (c Config) OpenFlags() sqlitec.OpenFlags {
	flags := sqlitec.OpenReadWrite
	if c.ReadOnly {
		flags = sqlitec.OpenReadOnly
	}
	if c.MultiThreaded {
		flags |= sqlitec.OpenMultiThreaded
	}
	if c.URI {
		flags |= sqlitec.OpenURI
	}
	return flags
}

// validateDisposition validates if disposition names an open disposition.
func validateDisposition(disposition string) (sqlitec.OpenDisposition, error) {
	parsed := sqlitec.Dispositions.Parse(disposition)
	if parsed == nil {
		return sqlitec.OpenDisposition{}, fmt.Errorf(
			"invalid disposition, valid values are: %s",
			strings.Join(sqlitec.Dispositions.Values(), ", "),
		)
	}
	return *parsed, nil
}
