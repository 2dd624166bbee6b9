package config

import (
	"fmt"
	"log"

	"github.com/alexflint/go-arg"
	"github.com/nsqlite/nsqlitec/internal/version"
)

// Config represents the configuration for nsqlitecbench.
type Config struct {
	DataDirectory string `arg:"--data-directory,env:NSQLITECBENCH_DATA_DIRECTORY" help:"Directory for the benchmark databases, a temporary one when empty"`
	Users         int    `arg:"--users,env:NSQLITECBENCH_USERS" help:"Users inserted by the simple benchmark, the other benchmarks use a tenth" default:"100000"`
	LargeBytes    int    `arg:"--large-bytes,env:NSQLITECBENCH_LARGE_BYTES" help:"Size in bytes of the email of each user in the large benchmark" default:"10000"`
	Queries       int    `arg:"--queries,env:NSQLITECBENCH_QUERIES" help:"How many times the many benchmark reads every user" default:"100"`
	Verbose       bool   `arg:"-v,--verbose,env:NSQLITECBENCH_VERBOSE" help:"Log every statement as it is prepared and stepped" default:"false"`
}

func (Config) Version() string {
	return fmt.Sprintf("%s\n", version.BenchVersion())
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

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	return cfg
}

// Validate checks that every size in the configuration is usable.
func (c Config) Validate() error {
	if err := validatePositive("users", c.Users); err != nil {
		return err
	}
	if err := validatePositive("large-bytes", c.LargeBytes); err != nil {
		return err
	}
	return validatePositive("queries", c.Queries)
}

// validatePositive validates if value is greater than zero.
func validatePositive(name string, value int) error {
	if value <= 0 {
		return fmt.Errorf("invalid %s, must be greater than zero", name)
	}
	return nil
}
