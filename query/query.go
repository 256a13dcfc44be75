// Copyright 2024 Block, Inc.

// Package query runs plugin queries. Every call opens one connection, runs
// one statement, and closes the connection before returning, on every path.
// Nothing is retried.
package query

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cashapp/mysqlcheck"
	"github.com/cashapp/mysqlcheck/dbconn"
	"github.com/cashapp/mysqlcheck/event"
	"github.com/cashapp/mysqlcheck/sqlutil"
)

// Executor runs queries on new connections made by its Connector.
type Executor struct {
	conn dbconn.Connector
}

func NewExecutor(conn dbconn.Connector) Executor {
	return Executor{conn: conn}
}

// RowCount runs the query and returns the number of rows in the result set.
func (e Executor) RowCount(ctx context.Context, params mysqlcheck.ConnectionParams, query string) (int, error) {
	var n int
	err := e.withConn(ctx, params, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()
		n, err = sqlutil.CountRows(rows)
		return err
	})
	if err != nil {
		return 0, err
	}
	event.Sendf(event.QUERY_DONE, "%d rows", n)
	return n, nil
}

// Scalar runs a SELECT COUNT(*) query and returns column 0 of row 0 as an
// integer. If the query does not begin with SELECT COUNT(*), it returns a
// mysqlcheck.ValidationError without connecting.
func (e Executor) Scalar(ctx context.Context, params mysqlcheck.ConnectionParams, query string) (int64, error) {
	if !sqlutil.SelectCount(query) {
		event.Errorf(event.QUERY_INVALID, "%s", query)
		return 0, mysqlcheck.ValidationError{SQL: query}
	}

	var v int64
	err := e.withConn(ctx, params, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()
		val, ok, err := sqlutil.FirstColumn(rows)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("query returned no rows: %s", query)
		}
		i, ok := sqlutil.Int64(val)
		if !ok {
			return fmt.Errorf("query returned non-integer value %q: %s", val, query)
		}
		v = i
		return nil
	})
	if err != nil {
		return 0, err
	}
	event.Sendf(event.QUERY_DONE, "value %d", v)
	return v, nil
}

// Exec runs a statement with args, like an INSERT, and returns the number of
// rows affected.
func (e Executor) Exec(ctx context.Context, params mysqlcheck.ConnectionParams, query string, args ...interface{}) (int64, error) {
	var n int64
	err := e.withConn(ctx, params, func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	return n, err
}

// withConn connects, calls f, and closes the connection. Errors from
// connecting or f are returned as a mysqlcheck.DatabaseError.
func (e Executor) withConn(ctx context.Context, params mysqlcheck.ConnectionParams, f func(*sql.DB) error) error {
	db, err := e.conn.Connect(ctx, params)
	if err != nil {
		if dbconn.CannotConnect(err) {
			event.Errorf(event.DB_ERROR, "cannot connect to %s: %s", dbconn.DescribeParams(params), err)
		}
		return dbconn.DatabaseError(err)
	}
	defer func() {
		db.Close()
		event.Send(event.DB_CLOSED)
	}()

	event.Send(event.QUERY_RUNNING)
	if err := f(db); err != nil {
		if sqlutil.ReadOnly(err) {
			event.Errorf(event.DB_ERROR, "%s is read-only: %s", dbconn.DescribeParams(params), err)
		}
		return dbconn.DatabaseError(err)
	}
	return nil
}
