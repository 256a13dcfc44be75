// Copyright 2024 Block, Inc.

package sqlutil

import (
	"database/sql"
	"regexp"
	"strconv"
	"strings"

	my "github.com/go-mysql/errors"
)

var selectCount = regexp.MustCompile(`(?i)^select\s+count\(\s*\*\s*\)`)

// SelectCount returns true if the query begins with SELECT COUNT(*), case
// insensitive, with optional whitespace in the parentheses. Leading whitespace
// is not allowed.
func SelectCount(query string) bool {
	return selectCount.MatchString(query)
}

// Int64 converts a column value (string) to int64, if possible. Decimal
// values, like SUM() returns, are truncated.
func Int64(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	i, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err == nil {
		return int64(f), true
	}
	return 0, false
}

// CountRows returns the number of rows in the result set. It reads and
// discards every row. The caller must close rows.
func CountRows(rows *sql.Rows) (int, error) {
	n := 0
	for rows.Next() {
		n++
	}
	return n, rows.Err()
}

// FirstColumn returns column 0 of row 0 as a string, and false if there
// are no rows. The caller must close rows.
func FirstColumn(rows *sql.Rows) (string, bool, error) {
	columns, err := rows.Columns()
	if err != nil {
		return "", false, err
	}
	if !rows.Next() {
		return "", false, rows.Err()
	}

	// Scan() takes pointers, so scanArgs is a list of pointers to values
	scanArgs := make([]interface{}, len(columns))
	values := make([]sql.RawBytes, len(columns))
	for i := range values {
		scanArgs[i] = &values[i]
	}
	if err := rows.Scan(scanArgs...); err != nil {
		return "", false, err
	}
	return string(values[0]), true, nil
}

func CleanObjectName(o string) string {
	o = strings.ReplaceAll(o, ";", "")
	o = strings.ReplaceAll(o, "`", "")
	return strings.TrimSpace(o) // must be last in case Replace make space
}

// SanitizeTable returns the table name as `db`.`table`. If table is not
// database-qualified, db is used.
func SanitizeTable(table, db string) string {
	v := strings.SplitN(table, ".", 2)
	if len(v) == 1 {
		return "`" + CleanObjectName(db) + "`.`" + CleanObjectName(v[0]) + "`"
	}
	return "`" + CleanObjectName(v[0]) + "`.`" + CleanObjectName(v[1]) + "`"
}

func ReadOnly(err error) bool {
	mysqlError, myerr := my.Error(err)
	if !mysqlError {
		return false
	}
	return myerr == my.ErrReadOnly
}
