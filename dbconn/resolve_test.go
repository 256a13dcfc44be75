// Copyright 2024 Block, Inc.

package dbconn_test

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/cashapp/mysqlcheck"
	"github.com/cashapp/mysqlcheck/dbconn"
)

func TestResolveExplicit(t *testing.T) {
	src := mysqlcheck.NewCredentialSource(mysqlcheck.ConnectionParams{
		Hostname: "db1",
		Username: "u",
		Database: "d",
	}, "", "client")

	got, err := dbconn.Resolve(src)
	if err != nil {
		t.Fatal(err)
	}
	expect := mysqlcheck.ConnectionParams{
		Hostname:       "db1",
		Port:           3306, // default
		Username:       "u",
		Database:       "d",
		TimeoutConnect: mysqlcheck.DEFAULT_TIMEOUT_CONNECT,
	}
	if diff := deep.Equal(got, expect); diff != nil {
		t.Error(diff)
	}
}

func TestResolveIniIgnoresExplicit(t *testing.T) {
	// Every explicit param is set, but the ini file is the only source used:
	// not one explicit value should be merged into the result
	explicit := mysqlcheck.ConnectionParams{
		Hostname:       "explicit-host",
		Port:           9999,
		Username:       "explicit-user",
		Password:       "explicit-pass",
		Database:       "explicit-db",
		Socket:         "/explicit.sock",
		PasswordFile:   "/explicit-pass-file",
		PasswordSecret: "explicit-secret",
	}
	src := mysqlcheck.NewCredentialSource(explicit, "../test/mycnf/full", "client")
	if _, ok := src.(mysqlcheck.IniFile); !ok {
		t.Fatalf("got credential source %T, expected mysqlcheck.IniFile", src)
	}

	got, err := dbconn.Resolve(src)
	if err != nil {
		t.Fatal(err)
	}
	expect := mysqlcheck.ConnectionParams{
		Hostname:       "H",
		Port:           33560,
		Username:       "U",
		Password:       "P",
		Database:       "D",
		TimeoutConnect: mysqlcheck.DEFAULT_TIMEOUT_CONNECT,
	}
	if diff := deep.Equal(got, expect); diff != nil {
		t.Error(diff)
	}
}

func TestResolveIniError(t *testing.T) {
	src := mysqlcheck.IniFile{Path: "../test/mycnf/missing-key", Section: "client"}
	if _, err := dbconn.Resolve(src); err == nil {
		t.Error("no error, expected ConfigError for missing database key")
	}
}
