// Copyright 2024 Block, Inc.

package dbconn

import (
	"errors"

	my "github.com/go-mysql/errors"
	"github.com/go-sql-driver/mysql"

	"github.com/cashapp/mysqlcheck"
)

// DatabaseError converts a driver error to a mysqlcheck.DatabaseError with
// the MySQL error code, message, and SQLSTATE, if the driver returned a MySQL
// error. Other errors (connection refused, timeout, etc.) have only the
// message. Errors that are already a mysqlcheck error are returned as-is.
func DatabaseError(err error) error {
	if err == nil {
		return nil
	}

	var dbErr mysqlcheck.DatabaseError
	var cfgErr mysqlcheck.ConfigError
	var valErr mysqlcheck.ValidationError
	if errors.As(err, &dbErr) || errors.As(err, &cfgErr) || errors.As(err, &valErr) {
		return err
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		e := mysqlcheck.DatabaseError{
			Code:    myErr.Number,
			Message: myErr.Message,
		}
		if myErr.SQLState != [5]byte{} {
			e.SQLState = string(myErr.SQLState[:])
		}
		return e
	}

	return mysqlcheck.DatabaseError{Message: err.Error()}
}

// CannotConnect returns true if the error means MySQL could not be reached
// or the connection was lost.
func CannotConnect(err error) bool {
	ok, myerr := my.Error(err)
	if !ok {
		return false
	}
	return myerr == my.ErrCannotConnect || myerr == my.ErrConnLost
}
