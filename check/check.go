// Copyright 2024 Block, Inc.

// Package check implements the query result count check: run a query, count
// the rows, and compare the count to warning and critical thresholds.
package check

import (
	"context"

	"github.com/cashapp/mysqlcheck/event"
	"github.com/cashapp/mysqlcheck/query"
	"github.com/cashapp/mysqlcheck/status"
)

const PLUGIN_NAME = "check-mysql-query-result-count"

// Thresholds are the row count limits. Warning is not required to be less
// than Critical.
type Thresholds struct {
	Warning  int
	Critical int
}

// Evaluate returns the outcome for the row count. Critical is checked first
// and a count equal to a limit breaches it, so a count that meets both limits
// is CRITICAL. If Warning > Critical, WARNING is unreachable.
func Evaluate(rowCount int, t Thresholds) status.Outcome {
	if rowCount >= t.Critical {
		return status.Critical("Result count is above the CRITICAL limit: %d length / %d limit", rowCount, t.Critical)
	}
	if rowCount >= t.Warning {
		return status.Warning("Result count is above the WARNING limit: %d length / %d limit", rowCount, t.Warning)
	}
	return status.Ok("Result count length is below thresholds")
}

// Run runs the check. Every error is returned as a CRITICAL outcome.
func Run(ctx context.Context, o Options, e query.Executor) status.Outcome {
	if err := o.Validate(); err != nil {
		return status.Error(err)
	}

	params, err := o.Resolve()
	if err != nil {
		event.Errorf(event.CREDENTIALS_ERROR, "%s", err)
		return status.Error(err)
	}
	event.Send(event.CREDENTIALS_RESOLVED)

	n, err := e.RowCount(ctx, params, o.Query)
	if err != nil {
		return status.Error(err)
	}

	return Evaluate(n, Thresholds{Warning: o.Warning, Critical: o.Critical})
}
