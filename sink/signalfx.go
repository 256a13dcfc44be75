// Copyright 2024 Block, Inc.

package sink

import (
	"context"
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/signalfx/golib/v3/datapoint"
	"github.com/signalfx/golib/v3/sfxclient"

	"github.com/cashapp/mysqlcheck"
)

// SignalFx sends metrics as gauges to SignalFx. Data points are buffered
// and sent on Flush.
type SignalFx struct {
	sink *sfxclient.HTTPSink
	dim  map[string]string
	dp   []*datapoint.Datapoint
}

func NewSignalFx(opts map[string]string) (*SignalFx, error) {
	sink := sfxclient.NewHTTPSink()
	s := &SignalFx{
		sink: sink,
		dim:  map[string]string{},
		dp:   []*datapoint.Datapoint{},
	}

	for k, v := range opts {
		switch {
		case k == "auth-token-file":
			bytes, err := ioutil.ReadFile(v)
			if err != nil {
				return nil, err
			}
			sink.AuthToken = strings.TrimSpace(string(bytes))
		case k == "auth-token":
			sink.AuthToken = v
		case k == "endpoint":
			sink.DatapointEndpoint = v
		case strings.HasPrefix(k, "dim."): // dim.env=prod -> env=prod dimension
			s.dim[strings.TrimPrefix(k, "dim.")] = v
		default:
			return nil, fmt.Errorf("invalid option: %s", k)
		}
	}

	if sink.AuthToken == "" {
		return nil, fmt.Errorf("signalfx sink requires auth-token or auth-token-file option")
	}

	return s, nil
}

func (s *SignalFx) Send(ctx context.Context, m mysqlcheck.Metric) error {
	dp := sfxclient.Gauge(m.Name, s.dim, m.Value)
	dp.Timestamp = m.Ts
	s.dp = append(s.dp, dp)
	return nil
}

func (s *SignalFx) Flush(ctx context.Context) error {
	if len(s.dp) == 0 {
		return nil
	}
	mysqlcheck.Debug("sending %d metrics to SignalFx", len(s.dp))
	err := s.sink.AddDatapoints(ctx, s.dp)
	s.dp = s.dp[:0]
	return err
}

func (s *SignalFx) Name() string {
	return "signalfx"
}
