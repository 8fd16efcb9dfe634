package recorder

import (
	"time"

	"PriceSentinel/internal/model"
)

// CycleRecord captures one successful poll cycle: the fetched quote and the
// indicators computed from the window afterwards.
type CycleRecord struct {
	Quote    *model.Quote
	Snapshot *model.IndicatorSnapshot
}

// CycleFailure captures an abandoned cycle or a delivery failure.
type CycleFailure struct {
	Stage   string // "fetch", "append" or "dispatch"
	Message string
}

// SampleStats summarizes recorded samples since some instant.
type SampleStats struct {
	Count int
	Min   float64
	Max   float64
	First float64
	Last  float64
}

// Recorder persists cycle history for digests and offline analysis.
type Recorder interface {
	RecordCycle(rec *CycleRecord) error
	RecordFailure(f *CycleFailure) error
	Stats(since time.Time) (*SampleStats, error)
	Close() error
}
