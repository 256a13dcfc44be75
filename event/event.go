// Copyright 2024 Block, Inc.

// Package event provides a simple event stream in lieu of standard logging.
package event

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/cashapp/mysqlcheck"
)

// Event is something that happened in a plugin. Events replace traditional logging.
type Event struct {
	Ts      time.Time
	Event   string
	Plugin  string
	Message string
	Error   bool
}

// A Receiver sends events to a destination. Use Tee to send events to multiple destinations.
// Implementations must be non-blocking; callers expect this.
type Receiver interface {
	// Recv receives one event. It must not block.
	Recv(Event)
}

// SetReceiver sets the receiver used to handle events. The default receiver
// is Log.
func SetReceiver(r Receiver) {
	mux.Lock()
	receiver = r
	mux.Unlock()
}

// SetPlugin sets the plugin name added to every event.
func SetPlugin(name string) {
	mux.Lock()
	plugin = name
	mux.Unlock()
}

var (
	mux               = &sync.Mutex{}
	receiver Receiver = Log{}
	plugin            = ""
)

// Send sends an event with no additional message.
// This is a convenience function for Sendf.
func Send(eventName string) {
	send(Event{Ts: time.Now(), Event: eventName})
}

// Sendf sends an event and formatted message.
func Sendf(eventName string, msg string, args ...interface{}) {
	send(Event{
		Ts:      time.Now(),
		Event:   eventName,
		Message: fmt.Sprintf(msg, args...),
	})
}

// Errorf sends an event flagged as an error with a formatted message.
func Errorf(eventName string, msg string, args ...interface{}) {
	send(Event{
		Ts:      time.Now(),
		Event:   eventName,
		Message: fmt.Sprintf(msg, args...),
		Error:   true,
	})
}

func send(e Event) {
	mux.Lock()
	r := receiver
	e.Plugin = plugin
	mux.Unlock()
	r.Recv(e)
}

// --------------------------------------------------------------------------

// Plugins write check output and metrics to STDOUT, so events go to STDERR.
var stderr = log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)

// Log is the default Receiver that uses the Go built-in log package to print
// error events to STDERR. Other events are printed only if All is true or
// debugging is enabled. Call SetReceiver to override this default.
type Log struct {
	All bool
}

func (s Log) Recv(e Event) {
	if e.Error {
		stderr.Printf("[%-25s] [%s] ERROR: %s", e.Event, e.Plugin, e.Message)
		return
	}

	if s.All || mysqlcheck.Debugging {
		stderr.Printf("[%-25s] [%s] %s", e.Event, e.Plugin, e.Message)
		return
	}
}

// --------------------------------------------------------------------------

// Tee connects multiple Receiver, like the Unix tee command. It implements
// Receiver. On Tee.Recv, it copies the event to a real receiver: Tee.Receiver.
// Then it copies the event to Tee.Out, if Out is not nil.  To "pipe fit"
// multiple Tee together, use another Tee for Out.
//
//	  event --> Tee.Recv --> Tee.Out.Recv // second
//				   |
//	            +-> Tee.Receiver.Recv // first
type Tee struct {
	Receiver Receiver
	Out      Receiver
}

func (t Tee) Recv(e Event) {
	t.Receiver.Recv(e)
	if t.Out != nil {
		t.Out.Recv(e)
	}
}
