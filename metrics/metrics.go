// Copyright 2024 Block, Inc.

// Package metrics implements the select count metrics plugin: run a batch of
// named SELECT COUNT(*) queries and emit one metric per query.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/cashapp/mysqlcheck"
	"github.com/cashapp/mysqlcheck/event"
	"github.com/cashapp/mysqlcheck/query"
	"github.com/cashapp/mysqlcheck/status"
)

const PLUGIN_NAME = "metrics-mysql-multiple-select-count"

// Run runs every query in order, each on its own connection, and sends
// each value to every sink as soon as the query returns. The first error
// stops the batch: later queries are not run, but metrics already sent are
// not taken back. Sinks are flushed before returning in either case.
// Success is an OK outcome with no message.
func Run(ctx context.Context, o Options, e query.Executor, sinks []mysqlcheck.Sink) (outcome status.Outcome) {
	if err := o.Validate(); err != nil {
		return status.Error(err)
	}

	queries, err := ParseQueries(o.Query)
	if err != nil {
		return status.Error(err)
	}

	params, err := o.Resolve()
	if err != nil {
		event.Errorf(event.CREDENTIALS_ERROR, "%s", err)
		return status.Error(err)
	}
	event.Send(event.CREDENTIALS_RESOLVED)

	defer func() {
		for _, s := range sinks {
			if err := s.Flush(ctx); err != nil {
				event.Errorf(event.SINK_ERROR, "%s: %s", s.Name(), err)
				if outcome.Status == status.OK {
					outcome = status.Critical("sink %s: %s", s.Name(), err)
				}
			}
		}
	}()

	for _, q := range queries {
		v, err := e.Scalar(ctx, params, q.SQL)
		if err != nil {
			var valErr mysqlcheck.ValidationError
			if errors.As(err, &valErr) {
				valErr.Key = q.Key
				return status.Error(valErr)
			}
			return status.Critical("query %s: %s", q.Key, err)
		}

		m := mysqlcheck.Metric{
			Name:  o.Name + "." + q.Key,
			Value: v,
			Ts:    time.Now(),
		}
		for _, s := range sinks {
			if err := s.Send(ctx, m); err != nil {
				event.Errorf(event.SINK_ERROR, "%s: %s", s.Name(), err)
				return status.Critical("sink %s: %s", s.Name(), err)
			}
		}
		event.Sendf(event.METRIC_EMITTED, "%s = %d", m.Name, m.Value)
	}

	return status.Ok("")
}
