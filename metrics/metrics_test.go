// Copyright 2024 Block, Inc.

package metrics_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashapp/mysqlcheck"
	"github.com/cashapp/mysqlcheck/metrics"
	"github.com/cashapp/mysqlcheck/query"
	"github.com/cashapp/mysqlcheck/sink"
	"github.com/cashapp/mysqlcheck/status"
	"github.com/cashapp/mysqlcheck/test"
	"github.com/cashapp/mysqlcheck/test/mock"
)

func TestParseQueries(t *testing.T) {
	// Order of the JSON object is kept
	got, err := metrics.ParseQueries(`{"z": "select count(*) from z", "a": "SELECT COUNT(*) FROM a", "m": "select count(*) from m"}`)
	require.NoError(t, err)
	expect := []metrics.NamedQuery{
		{Key: "z", SQL: "select count(*) from z"},
		{Key: "a", SQL: "SELECT COUNT(*) FROM a"},
		{Key: "m", SQL: "select count(*) from m"},
	}
	if diff := deep.Equal(got, expect); diff != nil {
		t.Error(diff)
	}

	got, err = metrics.ParseQueries(`{}`)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseQueriesErrors(t *testing.T) {
	bad := []string{
		``,
		`{"a": "select count(*) from t"`,
		`{"a": select}`,
		`["select count(*) from t"]`,
		`"select count(*) from t"`,
		`{"a": 1}`,
		`{"a": {"b": "select count(*) from t"}}`,
		`{"a": "select count(*) from t", "a": "select count(*) from u"}`,
		`{"a": "select count(*) from t"} {}`,
	}
	for _, s := range bad {
		_, err := metrics.ParseQueries(s)
		var jsonErr mysqlcheck.JSONParseError
		assert.True(t, errors.As(err, &jsonErr), "%s: got %v (%T), expected JSONParseError", s, err, err)
	}
}

// --------------------------------------------------------------------------

func options(t *testing.T, args ...string) metrics.Options {
	o, _, err := metrics.ParseCommandLine(args)
	require.NoError(t, err)
	return o
}

func count(v int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count(*)"}).AddRow(v)
}

func TestRunGraphite(t *testing.T) {
	conn := &test.MockConnector{
		T: t,
		Expect: func(n int, mock sqlmock.Sqlmock) {
			mock.ExpectQuery(regexp.QuoteMeta("select count(*) from t")).WillReturnRows(count(7))
			mock.ExpectClose()
		},
	}
	out := &bytes.Buffer{}
	o := options(t, "-H", "db1", "-q", `{"a": "select count(*) from t"}`)
	got := metrics.Run(context.Background(), o, query.NewExecutor(conn), []mysqlcheck.Sink{sink.NewGraphite(out)})
	assert.Equal(t, status.Ok(""), got)
	assert.Equal(t, 0, got.ExitCode())
	assert.Regexp(t, `^mysql\.query_count\.a 7 \d+\n$`, out.String())
	assert.Equal(t, 1, conn.Connections())
	conn.ExpectationsWereMet()
}

func TestRunName(t *testing.T) {
	conn := &test.MockConnector{
		T: t,
		Expect: func(n int, mock sqlmock.Sqlmock) {
			mock.ExpectQuery("select").WillReturnRows(count(int64(n + 1)))
			mock.ExpectClose()
		},
	}
	var sent []mysqlcheck.Metric
	s := mock.Sink{
		SendFunc: func(ctx context.Context, m mysqlcheck.Metric) error {
			sent = append(sent, m)
			return nil
		},
	}
	o := options(t, "-H", "db1", "-n", "app.jobs", "-q", `{"pending": "select count(*) from p", "done": "select count(*) from d"}`)
	got := metrics.Run(context.Background(), o, query.NewExecutor(conn), []mysqlcheck.Sink{s})
	assert.Equal(t, status.OK, got.Status)

	// One connection per query
	assert.Equal(t, 2, conn.Connections())
	conn.ExpectationsWereMet()

	require.Equal(t, 2, len(sent))
	assert.Equal(t, "app.jobs.pending", sent[0].Name)
	assert.Equal(t, int64(1), sent[0].Value)
	assert.Equal(t, "app.jobs.done", sent[1].Name)
	assert.Equal(t, int64(2), sent[1].Value)
}

func TestRunFailFast(t *testing.T) {
	// A is valid, B is not SELECT COUNT(*), C is valid: C must not run
	conn := &test.MockConnector{
		T: t,
		Expect: func(n int, mock sqlmock.Sqlmock) {
			mock.ExpectQuery(regexp.QuoteMeta("select count(*) from a")).WillReturnRows(count(3))
			mock.ExpectClose()
		},
	}
	flushed := 0
	out := &bytes.Buffer{}
	sinks := []mysqlcheck.Sink{
		sink.NewGraphite(out),
		mock.Sink{FlushFunc: func(ctx context.Context) error { flushed++; return nil }},
	}
	o := options(t, "-H", "db1", "-q", `{"A": "select count(*) from a", "B": "delete from b", "C": "select count(*) from c"}`)
	got := metrics.Run(context.Background(), o, query.NewExecutor(conn), sinks)
	assert.Equal(t, status.Outcome{Status: status.CRITICAL, Message: "invalid query for B: delete from b"}, got)
	assert.Equal(t, 2, got.ExitCode())

	// Only A ran, and its metric was emitted before B failed
	assert.Equal(t, 1, conn.Connections())
	conn.ExpectationsWereMet()
	assert.Regexp(t, `^mysql\.query_count\.A 3 \d+\n$`, out.String())

	// Sinks are flushed on failure too
	assert.Equal(t, 1, flushed)
}

func TestRunDatabaseError(t *testing.T) {
	conn := &test.MockConnector{
		T: t,
		Expect: func(n int, mock sqlmock.Sqlmock) {
			mock.ExpectQuery("select").WillReturnError(fmt.Errorf("table t does not exist"))
			mock.ExpectClose()
		},
	}
	out := &bytes.Buffer{}
	o := options(t, "-H", "db1", "-q", `{"a": "select count(*) from t", "b": "select count(*) from u"}`)
	got := metrics.Run(context.Background(), o, query.NewExecutor(conn), []mysqlcheck.Sink{sink.NewGraphite(out)})
	assert.Equal(t, status.CRITICAL, got.Status)
	assert.Equal(t, "query a: Error code: 0 Error message: table t does not exist", got.Message)
	assert.Equal(t, 1, conn.Connections())
	assert.Empty(t, out.String())
	conn.ExpectationsWereMet()
}

func TestRunMalformedJSON(t *testing.T) {
	conn := &test.MockConnector{T: t}
	out := &bytes.Buffer{}
	o := options(t, "-H", "db1", "-q", `{"a": "select count(*) from t"`)
	got := metrics.Run(context.Background(), o, query.NewExecutor(conn), []mysqlcheck.Sink{sink.NewGraphite(out)})
	assert.Equal(t, status.CRITICAL, got.Status)
	assert.Equal(t, 2, got.ExitCode())
	assert.Contains(t, got.Message, "JSON.parse error")
	assert.Empty(t, out.String())
	assert.Equal(t, 0, conn.Connections())
}

func TestRunSinkFlushError(t *testing.T) {
	conn := &test.MockConnector{
		T: t,
		Expect: func(n int, mock sqlmock.Sqlmock) {
			mock.ExpectQuery("select").WillReturnRows(count(1))
			mock.ExpectClose()
		},
	}
	s := mock.Sink{FlushFunc: func(ctx context.Context) error { return fmt.Errorf("connection refused") }}
	o := options(t, "-H", "db1", "-q", `{"a": "select count(*) from t"}`)
	got := metrics.Run(context.Background(), o, query.NewExecutor(conn), []mysqlcheck.Sink{s})
	assert.Equal(t, status.Outcome{Status: status.CRITICAL, Message: "sink mock.Sink: connection refused"}, got)
}

func TestRunRequiredHost(t *testing.T) {
	conn := &test.MockConnector{T: t}
	o := options(t, "-q", `{"a": "select count(*) from t"}`)
	got := metrics.Run(context.Background(), o, query.NewExecutor(conn), nil)
	assert.Equal(t, status.Outcome{Status: status.CRITICAL, Message: "--host is required"}, got)
	assert.Equal(t, 0, conn.Connections())
}

// --------------------------------------------------------------------------

func TestParseCommandLine(t *testing.T) {
	o := options(t, "-H", "db1", "-q", "{}")
	assert.Equal(t, mysqlcheck.DEFAULT_METRIC_NAME, o.Name)
	assert.Equal(t, "", o.Database)
	assert.Equal(t, 3306, o.Port)

	_, _, err := metrics.ParseCommandLine([]string{"-H", "db1"})
	var cfgErr mysqlcheck.ConfigError
	assert.True(t, errors.As(err, &cfgErr), "missing --query: got %v, expected ConfigError", err)

	o = options(t, "-H", "db1", "-q", "{}", "--sink", "log", "--sink", "dogstatsd", "--sink-opt", "dogstatsd.host=127.0.0.1")
	assert.Equal(t, []string{"log", "dogstatsd"}, o.Sinks)
	assert.Equal(t, []string{"dogstatsd.host=127.0.0.1"}, o.SinkOpts)
}

func TestMakeSinks(t *testing.T) {
	o := options(t, "-H", "db1", "-q", "{}")
	sinks, err := o.MakeSinks()
	require.NoError(t, err)
	require.Equal(t, 1, len(sinks))
	assert.Equal(t, "graphite", sinks[0].Name())

	o = options(t, "-H", "db1", "-q", "{}", "--sink", "graphite", "--sink", "log")
	sinks, err = o.MakeSinks()
	require.NoError(t, err)
	require.Equal(t, 2, len(sinks))
	assert.Equal(t, "log", sinks[1].Name())

	bad := [][]string{
		{"--sink", "nope"},
		{"--sink-opt", "noequals"},
		{"--sink-opt", "nodot=1"},
		{"--sink-opt", "dogstatsd.host=127.0.0.1"}, // sink not given
		{"--sink", "pushgateway"},                  // url required
	}
	for _, args := range bad {
		o = options(t, append([]string{"-H", "db1", "-q", "{}"}, args...)...)
		_, err = o.MakeSinks()
		var cfgErr mysqlcheck.ConfigError
		assert.True(t, errors.As(err, &cfgErr), "%v: got %v, expected ConfigError", args, err)
	}
}

func TestOptionsString(t *testing.T) {
	o := options(t, "-H", "db1", "-p", "hunter2", "-q", "{}", "--sink", "signalfx", "--sink-opt", "signalfx.auth-token=s3cret")
	got := o.String()
	assert.NotContains(t, got, "hunter2")
	assert.NotContains(t, got, "s3cret")
	assert.Contains(t, got, "signalfx.auth-token=...")
}
