// Copyright 2024 Block, Inc.

package mock

import (
	"sync"

	"github.com/cashapp/mysqlcheck/event"
)

type EventReceiver struct {
	RecvFunc func(event.Event)
}

var _ event.Receiver = EventReceiver{}

func (r EventReceiver) Recv(e event.Event) {
	if r.RecvFunc != nil {
		r.RecvFunc(e)
	}
}

// EventRecorder records every event it receives.
type EventRecorder struct {
	mux    sync.Mutex
	Events []event.Event
}

func (r *EventRecorder) Recv(e event.Event) {
	r.mux.Lock()
	r.Events = append(r.Events, e)
	r.mux.Unlock()
}

// Names returns the names of the events received, in order.
func (r *EventRecorder) Names() []string {
	r.mux.Lock()
	defer r.mux.Unlock()
	names := make([]string, len(r.Events))
	for i := range r.Events {
		names[i] = r.Events[i].Event
	}
	return names
}
