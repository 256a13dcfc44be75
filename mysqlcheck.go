// Copyright 2024 Block, Inc.

// Package mysqlcheck provides the types shared by the MySQL monitoring plugins:
// the query result count check, the select count metrics emitter, and the
// metrics handler. Each plugin is one linear pass: resolve credentials, open a
// connection, run the query, report, and exit.
package mysqlcheck

import (
	"context"
	"fmt"
	"log"
	"os"
	"path"
	"runtime"
	"time"
)

const VERSION = "1.0.0"

var SHA = ""

const (
	ENV_DEBUG = "MYSQLCHECK_DEBUG"

	DEFAULT_PORT            = 3306
	DEFAULT_INI_SECTION     = "client"
	DEFAULT_METRIC_NAME     = "mysql.query_count"
	DEFAULT_TIMEOUT_CONNECT = "5s"
)

// ConnectionParams are the parameters for one MySQL connection. They are
// resolved once per invocation (see dbconn.Resolve) and not modified after.
type ConnectionParams struct {
	Hostname string
	Port     int
	Username string
	Password string
	Database string
	Socket   string

	// Password sources other than Password. dbconn.Factory checks them in
	// order: AWSIAMAuth, PasswordSecret, PasswordFile, Password.
	PasswordFile   string
	PasswordSecret string
	AWSIAMAuth     bool
	AWSRegion      string

	// AWS password sources connect with TLS using the RDS CA unless disabled.
	AWSDisableAutoTLS bool

	TimeoutConnect string
}

// Addr returns the network and address to connect to: the socket if set,
// else hostname:port.
func (p ConnectionParams) Addr() (string, string) {
	if p.Socket != "" {
		return "unix", p.Socket
	}
	port := p.Port
	if port == 0 {
		port = DEFAULT_PORT
	}
	return "tcp", fmt.Sprintf("%s:%d", p.Hostname, port)
}

// AWSAutoTLS returns true if the connection uses TLS with the RDS CA: an AWS
// password source is used and auto TLS is not disabled.
func (p ConnectionParams) AWSAutoTLS() bool {
	return (p.AWSIAMAuth || p.PasswordSecret != "") && !p.AWSDisableAutoTLS
}

// CredentialSource is where connection params come from: command line flags
// (Explicit) or a section of a my.cnf file (IniFile). The two are mutually
// exclusive; an IniFile source ignores every explicit flag.
type CredentialSource interface {
	credentialSource()
}

// Explicit is a CredentialSource from command line flags or config values.
type Explicit struct {
	ConnectionParams
}

// IniFile is a CredentialSource from a my.cnf file section.
type IniFile struct {
	Path    string
	Section string
}

func (Explicit) credentialSource() {}
func (IniFile) credentialSource()  {}

// NewCredentialSource returns IniFile if iniFile is set, else Explicit with
// the given params.
func NewCredentialSource(params ConnectionParams, iniFile, iniSection string) CredentialSource {
	if iniFile != "" {
		if iniSection == "" {
			iniSection = DEFAULT_INI_SECTION
		}
		return IniFile{Path: iniFile, Section: iniSection}
	}
	return Explicit{ConnectionParams: params}
}

// Metric is one metric emitted by the select count metrics plugin.
type Metric struct {
	Name  string
	Value int64
	Ts    time.Time
}

// --------------------------------------------------------------------------

var (
	Debugging = false
	debugLog  = log.New(os.Stderr, "DEBUG ", log.LstdFlags|log.Lmicroseconds)
)

func Debug(msg string, v ...interface{}) {
	if !Debugging {
		return
	}
	_, file, line, _ := runtime.Caller(1)
	msg = fmt.Sprintf("%s:%d %s", path.Base(file), line, msg)
	debugLog.Printf(msg, v...)
}

// Sink receives the metrics emitted by the select count metrics plugin.
// Send is called once per metric as soon as its query succeeds. Flush is
// called once after the batch, whether it succeeded or not, so metrics sent
// before a failure are still delivered.
type Sink interface {
	Send(context.Context, Metric) error
	Flush(context.Context) error
	Name() string
}

// SinkFactory makes a Sink by name with sink-specific options.
type SinkFactory interface {
	Make(name string, opts map[string]string) (Sink, error)
}
