package metrics

import "testing"

type recordingBackend struct {
	counters   map[string]float64
	histograms map[string][]float64
	flushed    int
}

func newRecordingBackend() *recordingBackend {
	return &recordingBackend{
		counters:   map[string]float64{},
		histograms: map[string][]float64{},
	}
}

func (r *recordingBackend) IncCounter(name string, delta float64, _ Labels) {
	r.counters[name] += delta
}

func (r *recordingBackend) ObserveHistogram(name string, value float64, _ Labels) {
	r.histograms[name] = append(r.histograms[name], value)
}

func (r *recordingBackend) Flush() error {
	r.flushed++
	return nil
}

func TestPackageFuncsRouteToInstalledBackend(t *testing.T) {
	rec := newRecordingBackend()
	SetBackend(rec)
	defer SetBackend(nil)

	IncCounter(RowsTotal, 3, Labels{"table": "t"})
	IncCounter(RowsTotal, 2, nil)
	ObserveHistogram(RunDurationSeconds, 1.5, nil)
	if err := Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if got := rec.counters[RowsTotal]; got != 5 {
		t.Fatalf("counter = %v, want 5", got)
	}
	if got := rec.histograms[RunDurationSeconds]; len(got) != 1 || got[0] != 1.5 {
		t.Fatalf("histogram = %v", got)
	}
	if rec.flushed != 1 {
		t.Fatalf("flushed %d times, want 1", rec.flushed)
	}
}

type silentBackend struct{}

func (silentBackend) IncCounter(string, float64, Labels)       {}
func (silentBackend) ObserveHistogram(string, float64, Labels) {}
func (silentBackend) Flush() error                             { return nil }

// Installing backends of differing concrete types must not panic: the first
// install replaces the default nop, and later installs replace each other.
func TestSetBackendAcceptsDifferentConcreteTypes(t *testing.T) {
	defer SetBackend(nil)

	SetBackend(newRecordingBackend())
	SetBackend(silentBackend{})
	SetBackend(newRecordingBackend())

	IncCounter(RunsTotal, 1, nil)
}

// SetBackend(nil) restores the nop backend instead of panicking later.
func TestSetBackendNilIsNop(t *testing.T) {
	SetBackend(nil)

	IncCounter(RunsTotal, 1, nil)
	ObserveHistogram(RunDurationSeconds, 1, nil)
	if err := Flush(); err != nil {
		t.Fatalf("nop Flush: %v", err)
	}
}
