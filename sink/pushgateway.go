// Copyright 2024 Block, Inc.

package sink

import (
	"context"
	"fmt"
	"regexp"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/cashapp/mysqlcheck"
)

const DEFAULT_PUSHGATEWAY_JOB = "mysqlcheck"

var invalidPromChars = regexp.MustCompile(`[^a-zA-Z0-9_:]`)

// PromName converts a dotted metric name to a Prometheus metric name:
// mysql.query_count.a -> mysql_query_count_a.
func PromName(name string) string {
	name = invalidPromChars.ReplaceAllString(name, "_")
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}

// Pushgateway pushes metrics as gauges to a Prometheus Pushgateway. Gauges
// are buffered and pushed on Flush.
type Pushgateway struct {
	pusher   *push.Pusher
	registry *prometheus.Registry
	n        int
}

func NewPushgateway(opts map[string]string) (*Pushgateway, error) {
	url := ""
	job := DEFAULT_PUSHGATEWAY_JOB
	grouping := map[string]string{}
	for k, v := range opts {
		switch k {
		case "url":
			url = v
		case "job":
			job = v
		case "instance":
			grouping["instance"] = v
		default:
			return nil, fmt.Errorf("invalid option: %s", k)
		}
	}
	if url == "" {
		return nil, fmt.Errorf("pushgateway sink requires url option")
	}

	registry := prometheus.NewRegistry()
	pusher := push.New(url, job).Gatherer(registry)
	for k, v := range grouping {
		pusher = pusher.Grouping(k, v)
	}

	return &Pushgateway{
		pusher:   pusher,
		registry: registry,
	}, nil
}

func (s *Pushgateway) Send(ctx context.Context, m mysqlcheck.Metric) error {
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: PromName(m.Name),
		Help: "SELECT COUNT(*) value of " + m.Name,
	})
	g.Set(float64(m.Value))
	if err := s.registry.Register(g); err != nil {
		return err
	}
	s.n++
	return nil
}

func (s *Pushgateway) Flush(ctx context.Context) error {
	if s.n == 0 {
		return nil
	}
	mysqlcheck.Debug("pushing %d metrics", s.n)
	return s.pusher.PushContext(ctx)
}

func (s *Pushgateway) Name() string {
	return "pushgateway"
}
