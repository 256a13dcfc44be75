// Copyright 2024 Block, Inc.

package metrics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cashapp/mysqlcheck"
)

// NamedQuery is one metric key and its SELECT COUNT(*) query.
type NamedQuery struct {
	Key string
	SQL string
}

// ParseQueries parses the --query JSON object of metric key => query. The
// queries are returned in the order they appear in the object. Anything but
// an object of unique keys with string values is a mysqlcheck.JSONParseError.
func ParseQueries(s string) ([]NamedQuery, error) {
	dec := json.NewDecoder(strings.NewReader(s))

	tok, err := dec.Token()
	if err != nil {
		return nil, mysqlcheck.JSONParseError{Err: err}
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, mysqlcheck.JSONParseError{Err: fmt.Errorf("expected JSON object of metric key => query, got %v", tok)}
	}

	queries := []NamedQuery{}
	seen := map[string]bool{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, mysqlcheck.JSONParseError{Err: err}
		}
		key, ok := tok.(string)
		if !ok {
			return nil, mysqlcheck.JSONParseError{Err: fmt.Errorf("invalid key: %v", tok)}
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, mysqlcheck.JSONParseError{Err: err}
		}
		if !bytes.HasPrefix(raw, []byte(`"`)) {
			return nil, mysqlcheck.JSONParseError{Err: fmt.Errorf("value of %s is not a string: %s", key, raw)}
		}
		var sql string
		if err := json.Unmarshal(raw, &sql); err != nil {
			return nil, mysqlcheck.JSONParseError{Err: err}
		}

		if seen[key] {
			return nil, mysqlcheck.JSONParseError{Err: fmt.Errorf("duplicate key: %s", key)}
		}
		seen[key] = true
		queries = append(queries, NamedQuery{Key: key, SQL: sql})
	}

	// Closing } of the object, then nothing else
	if _, err := dec.Token(); err != nil {
		return nil, mysqlcheck.JSONParseError{Err: err}
	}
	if tok, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, mysqlcheck.JSONParseError{Err: err}
		}
		return nil, mysqlcheck.JSONParseError{Err: fmt.Errorf("unexpected data after JSON object: %v", tok)}
	}

	return queries, nil
}
