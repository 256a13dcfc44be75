// Copyright 2024 Block, Inc.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cashapp/mysqlcheck"
	"github.com/cashapp/mysqlcheck/check"
	"github.com/cashapp/mysqlcheck/dbconn"
	"github.com/cashapp/mysqlcheck/event"
	"github.com/cashapp/mysqlcheck/query"
	"github.com/cashapp/mysqlcheck/status"
)

func main() {
	event.SetPlugin(check.PLUGIN_NAME)

	o, p, err := check.ParseCommandLine(os.Args[1:])
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
	mysqlcheck.Debug("%s %s %s", check.PLUGIN_NAME, mysqlcheck.VERSION, o)

	event.Send(event.PLUGIN_START)
	outcome := check.Run(context.Background(), o, query.NewExecutor(dbconn.Factory{}))
	event.Sendf(event.PLUGIN_DONE, "%s", outcome.Status)
	status.Exit(outcome)
}
