// Copyright 2024 Block, Inc.

// Package dbconn resolves MySQL connection params and makes connections.
package dbconn

import (
	"context"
	"database/sql"
	"fmt"
	"io/ioutil"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/cashapp/mysqlcheck"
	"github.com/cashapp/mysqlcheck/aws"
	"github.com/cashapp/mysqlcheck/event"
)

// A Connector makes one connection to MySQL. The caller must close it.
type Connector interface {
	Connect(context.Context, mysqlcheck.ConnectionParams) (*sql.DB, error)
}

type PasswordFunc func(context.Context) (string, error)

// Factory is the Connector that connects to MySQL with go-sql-driver/mysql.
type Factory struct {
	// SecretPassword returns a PasswordFunc for the AWS Secrets Manager secret.
	// If nil, aws.NewSecret is used.
	SecretPassword func(name, region string) (PasswordFunc, error)

	// AuthToken returns a PasswordFunc for an RDS IAM auth token for the user
	// at addr (host:port). If nil, aws.NewAuthToken is used.
	AuthToken func(user, addr, region string) (PasswordFunc, error)
}

var _ Connector = Factory{}

// Connect returns a *sql.DB limited to one open connection. The connection
// is made (ping) before returning, so connect and auth errors are returned
// here, not on first query.
func (f Factory) Connect(ctx context.Context, params mysqlcheck.ConnectionParams) (*sql.DB, error) {
	db, dsn, err := f.Make(ctx, params)
	if err != nil {
		return nil, err
	}
	event.Sendf(event.DB_CONNECTING, "%s", dsn)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	event.Sendf(event.DB_CONNECTED, "%s", dsn)
	return db, nil
}

// Make makes a *sql.DB for the connection params. On success, it also returns
// a print-safe DSN (with any password replaced by "...").
func (f Factory) Make(ctx context.Context, params mysqlcheck.ConnectionParams) (*sql.DB, string, error) {
	passwordFunc, err := f.Password(params)
	if err != nil {
		return nil, "", err
	}
	password, err := passwordFunc(ctx)
	if err != nil {
		return nil, "", err
	}

	cfg, err := Config(params, password)
	if err != nil {
		return nil, "", err
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, "", err
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return db, SafeDSN(cfg), nil
}

// Config returns the go-sql-driver/mysql config for the connection params
// and password.
func Config(params mysqlcheck.ConnectionParams, password string) (*mysql.Config, error) {
	cfg := mysql.NewConfig()
	cfg.User = params.Username
	cfg.Passwd = password
	cfg.Net, cfg.Addr = params.Addr()
	cfg.DBName = params.Database

	if params.TimeoutConnect != "" {
		d, err := time.ParseDuration(params.TimeoutConnect)
		if err != nil {
			return nil, mysqlcheck.ConfigErrorf("invalid timeout-connect %q: %s", params.TimeoutConnect, err)
		}
		cfg.Timeout = d
	}

	if params.AWSAutoTLS() {
		aws.RegisterRDSCA()
		cfg.TLSConfig = aws.TLS_CONFIG_RDS
	}
	if params.AWSIAMAuth {
		// Auth token is sent as a cleartext password (over TLS)
		cfg.AllowCleartextPasswords = true
	}
	return cfg, nil
}

// SafeDSN returns the DSN with the password, if any, replaced by "...".
func SafeDSN(cfg *mysql.Config) string {
	c := cfg.Clone()
	if c.Passwd != "" {
		c.Passwd = "..."
	}
	return c.FormatDSN()
}

// Password returns the function that returns the password. Sources are
// checked in order: RDS IAM auth token, AWS Secrets Manager, password file,
// then the password itself, which can be blank.
func (f Factory) Password(params mysqlcheck.ConnectionParams) (PasswordFunc, error) {
	if params.AWSIAMAuth {
		// Password generated as IAM auth token (valid 15 min)
		mysqlcheck.Debug("password from AWS IAM auth token")
		if params.Hostname == "" {
			return nil, mysqlcheck.ConfigErrorf("AWS IAM auth requires a hostname, not a socket")
		}
		addr := fmt.Sprintf("%s:%d", params.Hostname, params.Port)
		if params.Port == 0 {
			addr = fmt.Sprintf("%s:%d", params.Hostname, mysqlcheck.DEFAULT_PORT)
		}
		if f.AuthToken != nil {
			return f.AuthToken(params.Username, addr, params.AWSRegion)
		}
		awsConfig := &aws.ConfigFactory{}
		awscfg, err := awsConfig.Make(params.AWSRegion)
		if err != nil {
			return nil, err
		}
		token := aws.NewAuthToken(params.Username, addr, awscfg)
		return token.Password, nil
	}

	if params.PasswordSecret != "" {
		mysqlcheck.Debug("password from AWS Secrets Manager")
		if f.SecretPassword != nil {
			return f.SecretPassword(params.PasswordSecret, params.AWSRegion)
		}
		awsConfig := &aws.ConfigFactory{}
		awscfg, err := awsConfig.Make(params.AWSRegion)
		if err != nil {
			return nil, err
		}
		secret := aws.NewSecret(params.PasswordSecret, awscfg)
		return secret.Password, nil
	}

	if params.PasswordFile != "" {
		mysqlcheck.Debug("password from file %s", params.PasswordFile)
		return func(context.Context) (string, error) {
			bytes, err := ioutil.ReadFile(params.PasswordFile)
			if err != nil {
				return "", mysqlcheck.ConfigErrorf("cannot read password file: %s", err)
			}
			return strings.TrimRight(string(bytes), "\r\n"), nil
		}, nil
	}

	if params.Password != "" {
		mysqlcheck.Debug("password from config")
	} else {
		mysqlcheck.Debug("password blank")
	}
	return func(context.Context) (string, error) { return params.Password, nil }, nil
}

// DescribeParams returns a short print-safe description of the params.
func DescribeParams(params mysqlcheck.ConnectionParams) string {
	net, addr := params.Addr()
	return fmt.Sprintf("%s@%s(%s)/%s", params.Username, net, addr, params.Database)
}
