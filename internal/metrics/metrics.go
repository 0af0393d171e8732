// Package metrics is the thin instrumentation seam the loader records
// through. The core code depends only on Backend; concrete exporters live
// in subpackages and are installed from main.
//
// The default backend is a nop, so uninstrumented runs cost two map-free
// function calls per event.
package metrics

import "sync/atomic"

// Metric names recorded by the loader. Backends may translate them into
// their own naming scheme.
const (
	RunsTotal          = "load_runs_total"
	RowsTotal          = "load_rows_total"
	BatchesTotal       = "load_batches_total"
	RunDurationSeconds = "load_run_duration_seconds"
)

// Labels attaches dimensions to a metric event.
type Labels map[string]string

// Backend receives metric events. Implementations must be safe for
// concurrent use.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

// holder wraps the installed backend so every Store into the atomic.Value
// uses one concrete type regardless of which Backend implementation is
// installed.
type holder struct {
	b Backend
}

var backend atomic.Value

func init() {
	backend.Store(holder{b: nopBackend{}})
}

// SetBackend installs b as the process-wide backend. Call once during
// startup, before any metrics are recorded.
func SetBackend(b Backend) {
	if b == nil {
		b = nopBackend{}
	}
	backend.Store(holder{b: b})
}

func current() Backend {
	return backend.Load().(holder).b
}

// IncCounter adds delta to a counter on the installed backend.
func IncCounter(name string, delta float64, labels Labels) {
	current().IncCounter(name, delta, labels)
}

// ObserveHistogram records a sample on the installed backend.
func ObserveHistogram(name string, value float64, labels Labels) {
	current().ObserveHistogram(name, value, labels)
}

// Flush forces the installed backend to submit whatever it has buffered.
func Flush() error {
	return current().Flush()
}
