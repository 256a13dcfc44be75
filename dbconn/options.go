// Copyright 2024 Block, Inc.

package dbconn

import (
	"fmt"

	"github.com/cashapp/mysqlcheck"
)

// Options are the connection command line options shared by the plugins.
// The plugins embed this struct in their own options. Required options
// differ by plugin, so they are checked by each plugin, not by tags.
type Options struct {
	Host           string `arg:"-H,--host" help:"MySQL host to connect to"`
	Port           int    `arg:"-P,--port" default:"3306" help:"MySQL port to connect to"`
	User           string `arg:"-u,--user" help:"MySQL username"`
	Pass           string `arg:"-p,--pass" help:"MySQL password"`
	Database       string `arg:"-d,--database" help:"MySQL database"`
	Ini            string `arg:"-i,--ini" help:"my.cnf ini file; all connection options are read from it"`
	IniSection     string `arg:"--ini-section" default:"client" help:"section in my.cnf ini file"`
	Socket         string `arg:"-S,--socket" help:"MySQL Unix socket to connect to"`
	PasswordFile   string `arg:"--password-file" help:"file containing the MySQL password"`
	PasswordSecret string `arg:"--password-secret" help:"AWS Secrets Manager secret containing the MySQL password"`
	AWSIAMAuth     bool   `arg:"--aws-iam-auth" help:"password is an RDS IAM auth token for --user"`
	AWSRegion      string `arg:"--aws-region" help:"AWS region of --password-secret or --aws-iam-auth, or \"auto\""`
	AWSNoAutoTLS   bool   `arg:"--aws-disable-auto-tls" help:"do not connect with TLS using the RDS CA for AWS passwords"`
	TimeoutConnect string `arg:"--timeout-connect" default:"5s" help:"MySQL connect timeout"`
}

// String returns the options with the password, if any, masked.
func (o Options) String() string {
	pass := ""
	if o.Pass != "" {
		pass = "..."
	}
	return fmt.Sprintf("host=%s port=%d user=%s pass=%s database=%s socket=%s ini=%s [%s] password-file=%s password-secret=%s aws-iam-auth=%t aws-region=%s timeout-connect=%s",
		o.Host, o.Port, o.User, pass, o.Database, o.Socket, o.Ini, o.IniSection,
		o.PasswordFile, o.PasswordSecret, o.AWSIAMAuth, o.AWSRegion, o.TimeoutConnect)
}

// CredentialSource returns IniFile if --ini is set, else Explicit with the
// connection options.
func (o Options) CredentialSource() mysqlcheck.CredentialSource {
	params := mysqlcheck.ConnectionParams{
		Hostname:          o.Host,
		Port:              o.Port,
		Username:          o.User,
		Password:          o.Pass,
		Database:          o.Database,
		Socket:            o.Socket,
		PasswordFile:      o.PasswordFile,
		PasswordSecret:    o.PasswordSecret,
		AWSIAMAuth:        o.AWSIAMAuth,
		AWSRegion:         o.AWSRegion,
		AWSDisableAutoTLS: o.AWSNoAutoTLS,
		TimeoutConnect:    o.TimeoutConnect,
	}
	return mysqlcheck.NewCredentialSource(params, o.Ini, o.IniSection)
}

// Resolve resolves the credential source of the options. The connect timeout
// is not a credential, so it applies to both sources.
func (o Options) Resolve() (mysqlcheck.ConnectionParams, error) {
	params, err := Resolve(o.CredentialSource())
	if err != nil {
		return params, err
	}
	if o.TimeoutConnect != "" {
		params.TimeoutConnect = o.TimeoutConnect
	}
	return params, nil
}

// RequireHost returns a ConfigError if --ini is not set and neither --host
// nor --socket is set.
func (o Options) RequireHost() error {
	if o.Ini == "" && o.Host == "" && o.Socket == "" {
		return mysqlcheck.ConfigErrorf("--host is required")
	}
	return nil
}
