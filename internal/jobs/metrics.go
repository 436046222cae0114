package jobs

import (
	"context"

	pkgLog "webhook-gateway/pkg/log"
)

// LogSink writes gauge samples to the structured log. It is the default sink
// when no metrics backend is configured.
type LogSink struct {
	l pkgLog.Logger
}

func NewLogSink(l pkgLog.Logger) *LogSink {
	return &LogSink{l: l}
}

func (s *LogSink) Gauge(ctx context.Context, name string, value float64, tags map[string]string) {
	s.l.Infof(ctx, "metric gauge: name=%s value=%v tags=%v", name, value, tags)
}

var _ MetricsSink = (*LogSink)(nil)
