// Copyright 2024 Block, Inc.

// Package handler implements the metrics handler: write the fields of one
// monitoring event to a history table for later comparisons and charts.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cashapp/mysqlcheck"
	"github.com/cashapp/mysqlcheck/dbconn"
	"github.com/cashapp/mysqlcheck/event"
	"github.com/cashapp/mysqlcheck/query"
	"github.com/cashapp/mysqlcheck/sqlutil"
	"github.com/cashapp/mysqlcheck/status"
)

const PLUGIN_NAME = "handler-mysql-metrics"

// Event is the part of a monitoring event that the handler writes.
type Event struct {
	Client struct {
		Name string `json:"name"`
	} `json:"client"`
	Check struct {
		Name   string `json:"name"`
		Issued int64  `json:"issued"`
		Output string `json:"output"`
		Status int    `json:"status"`
	} `json:"check"`
}

// ParseEvent decodes one event from r. Client and check names are required.
func ParseEvent(r io.Reader) (Event, error) {
	var ev Event
	if err := json.NewDecoder(r).Decode(&ev); err != nil {
		return ev, mysqlcheck.JSONParseError{Err: err}
	}
	if ev.Client.Name == "" {
		return ev, fmt.Errorf("invalid event: client.name is empty")
	}
	if ev.Check.Name == "" {
		return ev, fmt.Errorf("invalid event: check.name is empty")
	}
	return ev, nil
}

const insert = "INSERT INTO %s (client_id, check_name, issue_time, output, status) VALUES (?, ?, ?, ?, ?)"

// Handle inserts the event into the config table. Connection params come
// from cfg only: its mycnf file if set, else its own values.
func Handle(ctx context.Context, cfg mysqlcheck.ConfigMySQL, ev Event, e query.Executor) error {
	src, err := cfg.CredentialSource()
	if err != nil {
		return err
	}
	params, err := dbconn.Resolve(src)
	if err != nil {
		event.Errorf(event.CREDENTIALS_ERROR, "%s", err)
		return err
	}
	if cfg.TimeoutConnect != "" {
		params.TimeoutConnect = cfg.TimeoutConnect
	}
	event.Send(event.CREDENTIALS_RESOLVED)

	// mycnf database can be empty, so check again after resolving
	if params.Database == "" && !strings.Contains(cfg.Table, ".") {
		return mysqlcheck.ConfigErrorf("table %q is not database-qualified and there is no database", cfg.Table)
	}

	q := fmt.Sprintf(insert, sqlutil.SanitizeTable(cfg.Table, params.Database))
	mysqlcheck.Debug("%s", q)
	n, err := e.Exec(ctx, params, q,
		ev.Client.Name,
		ev.Check.Name,
		ev.Check.Issued,
		ev.Check.Output,
		ev.Check.Status,
	)
	if err != nil {
		return err
	}
	event.Sendf(event.HANDLER_INSERTED, "%s %s: %d row", ev.Client.Name, ev.Check.Name, n)
	return nil
}

// Run loads the config file, reads the event from stdin, and handles it.
// Every error is returned as a CRITICAL outcome. Success is an OK outcome
// with no message.
func Run(ctx context.Context, o Options, stdin io.Reader, e query.Executor) status.Outcome {
	cfg, err := mysqlcheck.LoadConfig(o.Config)
	if err != nil {
		return status.Error(err)
	}
	mysqlcheck.Debug("config: %s", cfg.MySQL)

	ev, err := ParseEvent(stdin)
	if err != nil {
		event.Errorf(event.HANDLER_EVENT_ERROR, "%s", err)
		return status.Error(err)
	}

	if err := Handle(ctx, cfg.MySQL, ev, e); err != nil {
		return status.Error(err)
	}
	return status.Ok("")
}
