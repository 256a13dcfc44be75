// Copyright 2024 Block, Inc.

package handler

import (
	"fmt"

	"github.com/alexflint/go-arg"

	"github.com/cashapp/mysqlcheck"
)

// Options are the handler command line options. Connection params are not
// options: they are in the config file.
type Options struct {
	Config string `arg:"--config,env:MYSQLCHECK_HANDLER_CONFIG" default:"/etc/sensu/conf.d/mysql-metrics.json" help:"config file (YAML or JSON)"`
	Debug  bool   `arg:"--debug,env:MYSQLCHECK_DEBUG" help:"print debug to stderr"`

	Help        bool `arg:"-"`
	ShowVersion bool `arg:"-"`
}

func (Options) Description() string {
	return "Writes the monitoring event on STDIN to a MySQL history table."
}

func (Options) Version() string {
	return fmt.Sprintf("%s %s %s", PLUGIN_NAME, mysqlcheck.VERSION, mysqlcheck.SHA)
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
