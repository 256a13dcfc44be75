// Copyright 2024 Block, Inc.

package dbconn

import (
	"fmt"

	"github.com/cashapp/mysqlcheck"
)

// Resolve returns the connection params from the credential source. An
// IniFile source reads every param from the file and ignores all explicit
// params; the two are never merged. For an Explicit source, Port defaults
// to 3306 and TimeoutConnect to mysqlcheck.DEFAULT_TIMEOUT_CONNECT.
func Resolve(src mysqlcheck.CredentialSource) (mysqlcheck.ConnectionParams, error) {
	var params mysqlcheck.ConnectionParams
	switch s := src.(type) {
	case mysqlcheck.IniFile:
		p, err := ParseMyCnf(s.Path, s.Section)
		if err != nil {
			return params, err
		}
		params = p
	case mysqlcheck.Explicit:
		params = s.ConnectionParams
	default:
		return params, mysqlcheck.ConfigError{Msg: fmt.Sprintf("invalid credential source: %T", src)}
	}

	if params.Port == 0 {
		params.Port = mysqlcheck.DEFAULT_PORT
	}
	if params.TimeoutConnect == "" {
		params.TimeoutConnect = mysqlcheck.DEFAULT_TIMEOUT_CONNECT
	}
	return params, nil
}
