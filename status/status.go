// Copyright 2024 Block, Inc.

// Package status provides the outcome of a plugin run: one of the four
// Nagios statuses with a message. Plugins report an outcome and exit through
// a nagiosplugin.Check.
package status

import (
	"fmt"
	"os"

	"github.com/joernott/nagiosplugin"
)

type Status = nagiosplugin.Status

const (
	OK       = nagiosplugin.OK
	WARNING  = nagiosplugin.WARNING
	CRITICAL = nagiosplugin.CRITICAL
	UNKNOWN  = nagiosplugin.UNKNOWN
)

// Outcome is the result of a plugin run. Run functions return an Outcome
// instead of exiting so they can be tested.
type Outcome struct {
	Status  Status
	Message string
}

func Ok(msg string, args ...interface{}) Outcome {
	return Outcome{Status: OK, Message: fmt.Sprintf(msg, args...)}
}

func Warning(msg string, args ...interface{}) Outcome {
	return Outcome{Status: WARNING, Message: fmt.Sprintf(msg, args...)}
}

func Critical(msg string, args ...interface{}) Outcome {
	return Outcome{Status: CRITICAL, Message: fmt.Sprintf(msg, args...)}
}

func Unknown(msg string, args ...interface{}) Outcome {
	return Outcome{Status: UNKNOWN, Message: fmt.Sprintf(msg, args...)}
}

// Error returns a CRITICAL outcome with the error text as the message.
// Every plugin error is critical: there's no UNKNOWN path in practice.
func Error(err error) Outcome {
	return Outcome{Status: CRITICAL, Message: err.Error()}
}

// ExitCode returns the process exit code: 0 OK, 1 WARNING, 2 CRITICAL, 3 UNKNOWN.
func (o Outcome) ExitCode() int {
	switch o.Status {
	case OK, WARNING, CRITICAL:
		return int(o.Status)
	}
	return int(UNKNOWN)
}

// Silent returns true for an OK outcome with no message. The metrics plugin
// and handler end that way so only metrics, if any, are printed.
func (o Outcome) Silent() bool {
	return o.Status == OK && o.Message == ""
}

// Check returns a nagiosplugin.Check with the outcome as its only result.
// Check.String is the output line, like "CRITICAL: message".
func (o Outcome) Check() *nagiosplugin.Check {
	c := nagiosplugin.NewCheck()
	c.AddResult(o.Status, o.Message)
	return c
}

// Exit prints the outcome on STDOUT and exits with its status. A silent
// outcome exits zero without output. Exit does not return.
func Exit(o Outcome) {
	if o.Silent() {
		os.Exit(0)
	}
	o.Check().Finish()
}
