// Copyright 2024 Block, Inc.

package mysqlcheck

import (
	"fmt"
)

// ConfigError is a missing or invalid credential source or required option.
type ConfigError struct {
	Msg string
}

func (e ConfigError) Error() string {
	return e.Msg
}

func ConfigErrorf(msg string, args ...interface{}) ConfigError {
	return ConfigError{Msg: fmt.Sprintf(msg, args...)}
}

// ValidationError is a metrics query that is not a SELECT COUNT(*) query.
// It is returned before any connection is made.
type ValidationError struct {
	Key string
	SQL string
}

func (e ValidationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("invalid query: %s", e.SQL)
	}
	return fmt.Sprintf("invalid query for %s: %s", e.Key, e.SQL)
}

// DatabaseError is a connection, authentication, or query error from MySQL.
// Code and SQLState are zero values when the driver did not return a MySQL
// error (for example, connection refused).
type DatabaseError struct {
	Code     uint16
	Message  string
	SQLState string
}

func (e DatabaseError) Error() string {
	msg := fmt.Sprintf("Error code: %d Error message: %s", e.Code, e.Message)
	if e.SQLState != "" {
		msg += " SQLSTATE: " + e.SQLState
	}
	return msg
}

// JSONParseError is malformed --query JSON for the metrics plugin.
type JSONParseError struct {
	Err error
}

func (e JSONParseError) Error() string {
	return fmt.Sprintf("JSON.parse error: %s", e.Err)
}

func (e JSONParseError) Unwrap() error {
	return e.Err
}
