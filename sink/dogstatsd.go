// Copyright 2024 Block, Inc.

package sink

import (
	"context"
	"fmt"
	"strings"

	"github.com/DataDog/datadog-go/v5/statsd"

	"github.com/cashapp/mysqlcheck"
)

// DogStatsD sends metrics as gauges to a Datadog agent.
type DogStatsD struct {
	tags   []string // tags option: k:v,k:v
	prefix string   // metric-prefix option
	// --
	client *statsd.Client
	addr   string
}

func NewDogStatsD(opts map[string]string) (*DogStatsD, error) {
	d := &DogStatsD{
		addr: "localhost:8125",
	}

	host := "localhost"
	port := "8125"
	for k, v := range opts {
		switch k {
		case "metric-prefix":
			if v == "" {
				return nil, fmt.Errorf("dogstatsd sink metric-prefix is empty string; value required when option is specified")
			}
			d.prefix = v
		case "host":
			if v == "" {
				return nil, fmt.Errorf("dogstatsd sink host is empty string; host is required")
			}
			host = v
		case "port":
			if v == "" {
				return nil, fmt.Errorf("dogstatsd sink port is empty string; port is required")
			}
			port = v
		case "tags":
			for _, tag := range strings.Split(v, ",") {
				tag = strings.TrimSpace(tag)
				if tag == "" {
					continue
				}
				d.tags = append(d.tags, tag)
			}
		default:
			return nil, fmt.Errorf("invalid option: %s", k)
		}
	}
	d.addr = host + ":" + port

	client, err := statsd.New(d.addr, statsd.WithoutTelemetry())
	if err != nil {
		return nil, err
	}
	d.client = client

	return d, nil
}

func (d *DogStatsD) Send(ctx context.Context, m mysqlcheck.Metric) error {
	name := m.Name
	if d.prefix != "" {
		name = d.prefix + name
	}
	if err := d.client.Gauge(name, float64(m.Value), d.tags, 1); err != nil {
		mysqlcheck.Debug("error sending data points to Datadog: %s", err)
		return err
	}
	return nil
}

// Flush sends buffered metrics and closes the client. The plugin is done
// after Flush, so the client is not reused.
func (d *DogStatsD) Flush(ctx context.Context) error {
	if err := d.client.Flush(); err != nil {
		return err
	}
	return d.client.Close()
}

func (d *DogStatsD) Name() string {
	return "dogstatsd"
}
