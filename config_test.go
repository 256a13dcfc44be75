// Copyright 2024 Block, Inc.

package mysqlcheck_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashapp/mysqlcheck"
)

func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}

// --------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	got := mysqlcheck.DefaultConfigHandler()
	assert.Equal(t, "3306", got.MySQL.Port)
	assert.Equal(t, "client", got.MySQL.MyCnfSection)
	assert.Equal(t, mysqlcheck.DEFAULT_HANDLER_TABLE, got.MySQL.Table)

	// Default config has no hostname or socket, so it's not valid by itself
	err := got.Validate()
	var cfgErr mysqlcheck.ConfigError
	assert.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %v", err)
}

// TestEnvInterpolation verifies that env vars with special characters, most notably $, are properly interpolated
func TestEnvInterpolation(t *testing.T) {
	envKey := "mysqlcheck_test_TestEnvInterpolation"
	envVal := "a$1b!@#$%^&*()-+={};\""
	defer os.Unsetenv(envKey)

	err := os.Setenv(envKey, envVal)
	require.Nil(t, err)

	cfg := mysqlcheck.ConfigHandler{MySQL: mysqlcheck.ConfigMySQL{Password: fmt.Sprintf("${%s}", envKey)}}
	cfg.InterpolateEnvVars()
	assert.Equal(t, envVal, cfg.MySQL.Password)
}

// TestEnvInterpolationEmpty verifies that a config like ${FOO:-bar} without FOO set, evaluates to "bar"
func TestEnvInterpolationEmpty(t *testing.T) {
	envKey := "mysqlcheck_test_TestEnvInterpolation"
	_ = os.Unsetenv(envKey)

	cfg := mysqlcheck.ConfigHandler{MySQL: mysqlcheck.ConfigMySQL{Password: fmt.Sprintf("${%s:-bar}", envKey)}}
	cfg.InterpolateEnvVars()
	assert.Equal(t, "bar", cfg.MySQL.Password)
}

func TestEnvInterpolationMulti(t *testing.T) {
	// Text around a var is kept, and every var is replaced
	_ = os.Unsetenv("MYSQLCHECK_TEST_UNSET")
	require.NoError(t, os.Setenv("MYSQLCHECK_TEST_HOST", "db1"))
	defer os.Unsetenv("MYSQLCHECK_TEST_HOST")

	cfg := mysqlcheck.ConfigHandler{MySQL: mysqlcheck.ConfigMySQL{
		Database: "db-${MYSQLCHECK_TEST_UNSET:-x}",
		Hostname: "${MYSQLCHECK_TEST_HOST}.${MYSQLCHECK_TEST_UNSET:-example}.com",
		Username: "u-${MYSQLCHECK_TEST_UNSET}",
	}}
	cfg.InterpolateEnvVars()
	assert.Equal(t, "db-x", cfg.MySQL.Database)
	assert.Equal(t, "db1.example.com", cfg.MySQL.Hostname)
	assert.Equal(t, "u-", cfg.MySQL.Username)
}

func TestValidateTable(t *testing.T) {
	cfg := mysqlcheck.DefaultConfigMySQL()
	cfg.Hostname = "db1"
	assert.NoError(t, cfg.Validate()) // default table is database-qualified

	// Table without database needs mysql.database
	cfg.Table = "history"
	err := cfg.Validate()
	var cfgErr mysqlcheck.ConfigError
	assert.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %v", err)

	cfg.Database = "sensumetrics"
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigJSON(t *testing.T) {
	// Sensu config files are JSON which is valid YAML
	file := filepath.Join(t.TempDir(), "mysql-metrics.json")
	json := `{"mysql": {"hostname": "db1", "username": "sensu", "password": "${MYSQLCHECK_TEST_PASS:-secret}", "database": "sensumetrics", "aws-iam-auth": true}}`
	require.NoError(t, os.WriteFile(file, []byte(json), 0644))

	got, err := mysqlcheck.LoadConfig(file)
	require.NoError(t, err)

	expect := mysqlcheck.ConfigHandler{
		MySQL: mysqlcheck.ConfigMySQL{
			Hostname:       "db1",
			Port:           "3306",
			Username:       "sensu",
			Password:       "secret",
			Database:       "sensumetrics",
			AWSIAMAuth:     true,
			MyCnfSection:   "client",
			Table:          mysqlcheck.DEFAULT_HANDLER_TABLE,
			TimeoutConnect: mysqlcheck.DEFAULT_TIMEOUT_CONNECT,
		},
	}
	if diff := deep.Equal(got, expect); diff != nil {
		t.Error(diff)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	var cfgErr mysqlcheck.ConfigError

	_, err := mysqlcheck.LoadConfig(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	assert.True(t, errors.As(err, &cfgErr), "file does not exist: expected ConfigError, got %v", err)

	file := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(file, []byte("mysql: [not, a, map"), 0644))
	_, err = mysqlcheck.LoadConfig(file)
	assert.True(t, errors.As(err, &cfgErr), "invalid YAML: expected ConfigError, got %v", err)

	file = filepath.Join(t.TempDir(), "port.yaml")
	require.NoError(t, os.WriteFile(file, []byte("mysql:\n  hostname: db1\n  port: abc\n"), 0644))
	_, err = mysqlcheck.LoadConfig(file)
	assert.True(t, errors.As(err, &cfgErr), "invalid port: expected ConfigError, got %v", err)
}

func TestConfigCredentialSource(t *testing.T) {
	// mycnf set: IniFile source, explicit values are ignored
	cfg := mysqlcheck.ConfigMySQL{
		Hostname:     "db1",
		Username:     "u",
		MyCnf:        "/etc/my.cnf",
		MyCnfSection: "sensu",
	}
	src, err := cfg.CredentialSource()
	require.NoError(t, err)
	assert.Equal(t, mysqlcheck.IniFile{Path: "/etc/my.cnf", Section: "sensu"}, src)

	// No mycnf: Explicit source from config values
	cfg = mysqlcheck.ConfigMySQL{
		Hostname: "db1",
		Port:     "3307",
		Username: "u",
		Password: "p",
		Database: "d",
	}
	src, err = cfg.CredentialSource()
	require.NoError(t, err)
	expect := mysqlcheck.Explicit{
		ConnectionParams: mysqlcheck.ConnectionParams{
			Hostname: "db1",
			Port:     3307,
			Username: "u",
			Password: "p",
			Database: "d",
		},
	}
	assert.Equal(t, expect, src)
}

func TestConnectionParamsAddr(t *testing.T) {
	net, addr := mysqlcheck.ConnectionParams{Hostname: "db1"}.Addr()
	assert.Equal(t, "tcp", net)
	assert.Equal(t, "db1:3306", addr)

	net, addr = mysqlcheck.ConnectionParams{Hostname: "db1", Port: 3307, Socket: "/tmp/mysql.sock"}.Addr()
	assert.Equal(t, "unix", net)
	assert.Equal(t, "/tmp/mysql.sock", addr)
}

func TestDatabaseErrorString(t *testing.T) {
	err := mysqlcheck.DatabaseError{Code: 1146, Message: "Table 'd.t' doesn't exist", SQLState: "42S02"}
	assert.Equal(t, "Error code: 1146 Error message: Table 'd.t' doesn't exist SQLSTATE: 42S02", err.Error())

	err = mysqlcheck.DatabaseError{Message: "dial tcp: connection refused"}
	assert.Equal(t, "Error code: 0 Error message: dial tcp: connection refused", err.Error())
}
