// Copyright 2024 Block, Inc.

package check

import (
	"fmt"

	"github.com/alexflint/go-arg"

	"github.com/cashapp/mysqlcheck"
	"github.com/cashapp/mysqlcheck/dbconn"
)

// Options are the check command line options. --warning, --critical, and
// --query are always required. --host and --database are required unless
// --ini is given.
type Options struct {
	dbconn.Options
	Warning  int    `arg:"-w,--warning,required" help:"COUNT warning threshold for number of items returned by the query"`
	Critical int    `arg:"-c,--critical,required" help:"COUNT critical threshold for number of items returned by the query"`
	Query    string `arg:"-q,--query,required" help:"query to execute"`
	Debug    bool   `arg:"--debug,env:MYSQLCHECK_DEBUG" help:"print debug to stderr"`

	Help        bool `arg:"-"`
	ShowVersion bool `arg:"-"`
}

func (Options) Description() string {
	return "Checks the number of rows returned by a MySQL query against warning and critical thresholds."
}

func (Options) Version() string {
	return fmt.Sprintf("%s %s %s", PLUGIN_NAME, mysqlcheck.VERSION, mysqlcheck.SHA)
}

// String returns the options with the password, if any, masked.
func (o Options) String() string {
	return fmt.Sprintf("%s warning=%d critical=%d query=%s", o.Options, o.Warning, o.Critical, o.Query)
}

func (o Options) Validate() error {
	if err := o.RequireHost(); err != nil {
		return err
	}
	if o.Ini == "" && o.Database == "" {
		return mysqlcheck.ConfigErrorf("--database is required")
	}
	return nil
}

// ParseCommandLine parses the command line args (without the program name)
// and env vars. Errors are mysqlcheck.ConfigError.
func ParseCommandLine(args []string) (Options, *arg.Parser, error) {
	var o Options
	p, err := arg.NewParser(arg.Config{Program: PLUGIN_NAME}, &o)
	if err != nil {
		return o, nil, err
	}
	if err := p.Parse(args); err != nil {
		switch err {
		case arg.ErrHelp:
			o.Help = true
		case arg.ErrVersion:
			o.ShowVersion = true
		default:
			return o, p, mysqlcheck.ConfigErrorf("Error parsing command line: %s", err)
		}
	}
	return o, p, nil
}
