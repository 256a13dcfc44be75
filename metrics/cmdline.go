// Copyright 2024 Block, Inc.

package metrics

import (
	"fmt"
	"strings"

	"github.com/alexflint/go-arg"

	"github.com/cashapp/mysqlcheck"
	"github.com/cashapp/mysqlcheck/dbconn"
	"github.com/cashapp/mysqlcheck/sink"
)

// Options are the metrics command line options. --query is required.
// --host is required unless --ini is given.
type Options struct {
	dbconn.Options
	Name     string   `arg:"-n,--name" default:"mysql.query_count" help:"metric name prefix"`
	Query    string   `arg:"-q,--query,required" help:"SELECT COUNT(*) queries to execute as JSON: {\"key\": \"select count(*) ...\"}"`
	Sinks    []string `arg:"--sink,separate" help:"metric sink: graphite (default), log, dogstatsd, signalfx, pushgateway"`
	SinkOpts []string `arg:"--sink-opt,separate" help:"sink option as sink.key=value, like dogstatsd.host=127.0.0.1"`
	Debug    bool     `arg:"--debug,env:MYSQLCHECK_DEBUG" help:"print debug to stderr"`

	Help        bool `arg:"-"`
	ShowVersion bool `arg:"-"`
}

func (Options) Description() string {
	return "Runs SELECT COUNT(*) queries and prints Graphite metrics of the counts."
}

func (Options) Version() string {
	return fmt.Sprintf("%s %s %s", PLUGIN_NAME, mysqlcheck.VERSION, mysqlcheck.SHA)
}

// String returns the options with the password, if any, and sink option
// values masked. Sink options can be auth tokens.
func (o Options) String() string {
	opts := make([]string, len(o.SinkOpts))
	for i, opt := range o.SinkOpts {
		opts[i] = strings.SplitN(opt, "=", 2)[0] + "=..."
	}
	return fmt.Sprintf("%s name=%s query=%s sink=%v sink-opt=%v", o.Options, o.Name, o.Query, o.Sinks, opts)
}

func (o Options) Validate() error {
	return o.RequireHost()
}

// MakeSinks makes the sinks given by --sink with options from --sink-opt.
// If no sinks are given, the default is graphite.
func (o Options) MakeSinks() ([]mysqlcheck.Sink, error) {
	names := o.Sinks
	if len(names) == 0 {
		names = []string{sink.DEFAULT_SINK}
	}

	opts := map[string]map[string]string{}
	for _, opt := range o.SinkOpts {
		kv := strings.SplitN(opt, "=", 2)
		nameKey := strings.SplitN(kv[0], ".", 2)
		if len(kv) != 2 || len(nameKey) != 2 || nameKey[0] == "" || nameKey[1] == "" {
			return nil, mysqlcheck.ConfigErrorf("invalid --sink-opt %s: expected sink.key=value", opt)
		}
		if opts[nameKey[0]] == nil {
			opts[nameKey[0]] = map[string]string{}
		}
		opts[nameKey[0]][nameKey[1]] = kv[1]
	}
	for name := range opts {
		found := false
		for _, n := range names {
			if n == name {
				found = true
				break
			}
		}
		if !found {
			return nil, mysqlcheck.ConfigErrorf("--sink-opt for sink %s but --sink %s not given", name, name)
		}
	}

	sinks := make([]mysqlcheck.Sink, 0, len(names))
	for _, name := range names {
		s, err := sink.Make(name, opts[name])
		if err != nil {
			return nil, mysqlcheck.ConfigErrorf("sink %s: %s", name, err)
		}
		sinks = append(sinks, s)
	}
	return sinks, nil
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
