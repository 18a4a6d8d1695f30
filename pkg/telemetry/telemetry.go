// Package telemetry records structured service events to logs and metrics.
package telemetry

import (
	"context"
	"io"
	"sort"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives structured events from services and commands.
type Recorder interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

// NewLogger builds a charmbracelet logger for CLI and server processes.
func NewLogger(w io.Writer, level string) *clog.Logger {
	logger := clog.NewWithOptions(w, clog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           parseLevel(level),
	})
	return logger
}

func parseLevel(level string) clog.Level {
	switch level {
	case "debug":
		return clog.DebugLevel
	case "warn":
		return clog.WarnLevel
	case "error":
		return clog.ErrorLevel
	default:
		return clog.InfoLevel
	}
}

// LogRecorder writes each event as a structured log line.
type LogRecorder struct {
	Logger *clog.Logger
}

// NewLogRecorder wraps a logger as a Recorder.
func NewLogRecorder(logger *clog.Logger) *LogRecorder {
	return &LogRecorder{Logger: logger}
}

// Record logs the event with its payload as sorted key-value pairs.
func (r *LogRecorder) Record(_ context.Context, event string, payload map[string]any) {
	if r.Logger == nil {
		return
	}
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	keyvals := make([]any, 0, len(payload)*2)
	for _, key := range keys {
		keyvals = append(keyvals, key, payload[key])
	}
	r.Logger.Info(event, keyvals...)
}

// MetricsRecorder counts events in a Prometheus counter labeled by event name.
type MetricsRecorder struct {
	events *prometheus.CounterVec
}

// NewMetricsRecorder registers the event counter with reg.
func NewMetricsRecorder(reg prometheus.Registerer) (*MetricsRecorder, error) {
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "backoffice",
		Name:      "events_total",
		Help:      "Count of back-office service events by name.",
	}, []string{"event"})
	if err := reg.Register(events); err != nil {
		return nil, err
	}
	return &MetricsRecorder{events: events}, nil
}

// Record increments the counter for the event.
func (r *MetricsRecorder) Record(_ context.Context, event string, _ map[string]any) {
	r.events.WithLabelValues(event).Inc()
}

// Multi fans events out to several recorders.
type Multi []Recorder

// Record forwards the event to every recorder.
func (m Multi) Record(ctx context.Context, event string, payload map[string]any) {
	for _, recorder := range m {
		if recorder != nil {
			recorder.Record(ctx, event, payload)
		}
	}
}
