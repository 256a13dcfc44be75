// Copyright 2024 Block, Inc.

package sink

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cashapp/mysqlcheck"
)

// Graphite writes one Graphite plaintext line per metric:
//
//	mysql.query_count.a 7 1700000000
//
// Lines are written as soon as each metric is sent.
type Graphite struct {
	w io.Writer
}

// NewGraphite returns a Graphite sink that writes to w, or STDOUT if w is nil.
func NewGraphite(w io.Writer) Graphite {
	if w == nil {
		w = os.Stdout
	}
	return Graphite{w: w}
}

func (s Graphite) Send(ctx context.Context, m mysqlcheck.Metric) error {
	_, err := fmt.Fprintf(s.w, "%s %d %d\n", m.Name, m.Value, m.Ts.Unix())
	return err
}

func (s Graphite) Flush(ctx context.Context) error {
	return nil
}

func (s Graphite) Name() string {
	return "graphite"
}
