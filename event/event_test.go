// Copyright 2024 Block, Inc.

package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashapp/mysqlcheck/event"
	"github.com/cashapp/mysqlcheck/test/mock"
)

func TestSend(t *testing.T) {
	rec := &mock.EventRecorder{}
	event.SetReceiver(rec)
	defer event.SetReceiver(event.Log{})
	event.SetPlugin("test-plugin")
	defer event.SetPlugin("")

	event.Send(event.PLUGIN_START)
	event.Sendf(event.QUERY_DONE, "%d rows", 5)
	event.Errorf(event.DB_ERROR, "cannot connect to %s", "db1")

	require.Equal(t, []string{event.PLUGIN_START, event.QUERY_DONE, event.DB_ERROR}, rec.Names())
	for _, e := range rec.Events {
		assert.Equal(t, "test-plugin", e.Plugin)
		assert.False(t, e.Ts.IsZero())
	}
	assert.Equal(t, "", rec.Events[0].Message)
	assert.Equal(t, "5 rows", rec.Events[1].Message)
	assert.False(t, rec.Events[1].Error)
	assert.Equal(t, "cannot connect to db1", rec.Events[2].Message)
	assert.True(t, rec.Events[2].Error)
}

func TestTee(t *testing.T) {
	first := &mock.EventRecorder{}
	var order []string
	second := mock.EventReceiver{
		RecvFunc: func(e event.Event) {
			// first received it before second
			order = append(order, e.Event)
			assert.Equal(t, len(order), len(first.Names()))
		},
	}
	event.SetReceiver(event.Tee{Receiver: first, Out: second})
	defer event.SetReceiver(event.Log{})

	event.Send(event.DB_CONNECTING)
	event.Send(event.DB_CONNECTED)
	assert.Equal(t, []string{event.DB_CONNECTING, event.DB_CONNECTED}, order)
	assert.Equal(t, order, first.Names())

	// Out is optional
	only := &mock.EventRecorder{}
	event.SetReceiver(event.Tee{Receiver: only})
	event.Send(event.DB_CLOSED)
	assert.Equal(t, []string{event.DB_CLOSED}, only.Names())
}
