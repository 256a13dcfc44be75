// Copyright 2024 Block, Inc.

// Package sink provides the metric sinks for the select count metrics plugin.
// The default sink is graphite: lines on STDOUT.
package sink

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cashapp/mysqlcheck"
)

const DEFAULT_SINK = "graphite"

func Register(name string, f mysqlcheck.SinkFactory) error {
	r.Lock()
	defer r.Unlock()
	_, ok := r.factory[name]
	if ok {
		return fmt.Errorf("%s already registered", name)
	}
	r.factory[name] = f
	return nil
}

func List() []string {
	r.Lock()
	defer r.Unlock()
	names := []string{}
	for k := range r.factory {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func Make(name string, opts map[string]string) (mysqlcheck.Sink, error) {
	r.Lock()
	defer r.Unlock()
	f, ok := r.factory[name]
	if !ok {
		return nil, fmt.Errorf("%s not registered", name)
	}
	return f.Make(name, opts)
}

// --------------------------------------------------------------------------

func init() {
	Register("graphite", f)
	Register("log", f)
	Register("dogstatsd", f)
	Register("signalfx", f)
	Register("pushgateway", f)
}

type repo struct {
	*sync.Mutex
	factory map[string]mysqlcheck.SinkFactory
}

var r = &repo{
	Mutex:   &sync.Mutex{},
	factory: map[string]mysqlcheck.SinkFactory{},
}

type factory struct{}

var f = factory{}

func (f factory) Make(name string, opts map[string]string) (mysqlcheck.Sink, error) {
	switch name {
	case "graphite":
		return NewGraphite(nil), nil
	case "log":
		return NewLogSink(nil), nil
	case "dogstatsd":
		return NewDogStatsD(opts)
	case "signalfx":
		return NewSignalFx(opts)
	case "pushgateway":
		return NewPushgateway(opts)
	}
	return nil, fmt.Errorf("%s not registered", name)
}
