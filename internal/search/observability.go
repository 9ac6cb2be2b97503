package search

import (
	"io"
	"log/slog"
)

// CallEvent records metadata about a single search call.
type CallEvent struct {
	Query     string
	Podcasts  int
	Results   int
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about search calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes search call events to an io.Writer.
type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{logger: slog.New(slog.NewTextHandler(w, nil))}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	attrs := []any{
		"query", event.Query,
		"podcasts", event.Podcasts,
		"results", event.Results,
		"latency_ms", event.LatencyMs,
	}
	if !event.Success {
		o.logger.Error("search_call", append(attrs, "error_code", event.ErrorCode)...)
		return
	}
	o.logger.Info("search_call", attrs...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
