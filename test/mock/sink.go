// Copyright 2024 Block, Inc.

package mock

import (
	"context"

	"github.com/cashapp/mysqlcheck"
)

type Sink struct {
	SendFunc  func(ctx context.Context, m mysqlcheck.Metric) error
	FlushFunc func(ctx context.Context) error
}

var _ mysqlcheck.Sink = Sink{}

func (s Sink) Send(ctx context.Context, m mysqlcheck.Metric) error {
	if s.SendFunc != nil {
		return s.SendFunc(ctx, m)
	}
	return nil
}

func (s Sink) Flush(ctx context.Context) error {
	if s.FlushFunc != nil {
		return s.FlushFunc(ctx)
	}
	return nil
}

func (s Sink) Name() string {
	return "mock.Sink"
}
