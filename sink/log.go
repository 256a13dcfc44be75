// Copyright 2024 Block, Inc.

package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cashapp/mysqlcheck"
)

// logSink prints metrics in a human-readable format.
type logSink struct {
	w io.Writer
}

func NewLogSink(w io.Writer) logSink {
	if w == nil {
		w = os.Stdout
	}
	return logSink{w: w}
}

func (s logSink) Send(ctx context.Context, m mysqlcheck.Metric) error {
	_, err := fmt.Fprintf(s.w, "# ts: %s\n%s = %d\n", m.Ts.Format(time.RFC3339), m.Name, m.Value)
	return err
}

func (s logSink) Flush(ctx context.Context) error {
	return nil
}

func (s logSink) Name() string {
	return "log"
}
