// Copyright 2024 Block, Inc.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cashapp/mysqlcheck"
	"github.com/cashapp/mysqlcheck/dbconn"
	"github.com/cashapp/mysqlcheck/event"
	"github.com/cashapp/mysqlcheck/metrics"
	"github.com/cashapp/mysqlcheck/query"
	"github.com/cashapp/mysqlcheck/status"
)

func main() {
	event.SetPlugin(metrics.PLUGIN_NAME)

	o, p, err := metrics.ParseCommandLine(os.Args[1:])
	if err != nil {
		event.Errorf(event.PLUGIN_ARGS, "%s", err)
		status.Exit(status.Error(err))
	}
	if o.Help {
		p.WriteHelp(os.Stdout)
		os.Exit(0)
	}
	if o.ShowVersion {
		fmt.Println(o.Version())
		os.Exit(0)
	}
	mysqlcheck.Debugging = o.Debug
	mysqlcheck.Debug("%s %s %s", metrics.PLUGIN_NAME, mysqlcheck.VERSION, o)

	sinks, err := o.MakeSinks()
	if err != nil {
		status.Exit(status.Error(err))
	}

	event.Send(event.PLUGIN_START)
	outcome := metrics.Run(context.Background(), o, query.NewExecutor(dbconn.Factory{}), sinks)
	event.Sendf(event.PLUGIN_DONE, "%s", outcome.Status)
	status.Exit(outcome)
}
