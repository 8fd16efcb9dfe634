package window

import (
	"errors"
	"fmt"
	"time"

	"PriceSentinel/internal/model"
)

// ErrOutOfOrder is returned when a sample is older than the newest stored
// sample. Equal timestamps are accepted.
var ErrOutOfOrder = errors.New("out-of-order sample")

// SampleWindow keeps price samples in timestamp order, bounded by a retention
// duration. The poll loop is the sole writer, so no locking is done here.
type SampleWindow struct {
	retention time.Duration
	samples   []model.PriceSample
}

// New creates an empty window with the given retention bound.
func New(retention time.Duration) *SampleWindow {
	return &SampleWindow{retention: retention}
}

// Append adds a sample, then evicts from the front every sample older than
// the retention bound relative to the appended sample's timestamp. The window
// is left unchanged when the sample is rejected.
func (w *SampleWindow) Append(s model.PriceSample) error {
	if n := len(w.samples); n > 0 && s.Time.Before(w.samples[n-1].Time) {
		return fmt.Errorf("%w: %s is before last stored %s",
			ErrOutOfOrder, s.Time.Format(time.RFC3339), w.samples[n-1].Time.Format(time.RFC3339))
	}
	w.samples = append(w.samples, s)

	cutoff := s.Time.Add(-w.retention)
	i := 0
	for i < len(w.samples) && w.samples[i].Time.Before(cutoff) {
		i++
	}
	if i > 0 {
		w.samples = append(w.samples[:0], w.samples[i:]...)
	}
	return nil
}

// Snapshot returns an ordered copy of the current samples.
func (w *SampleWindow) Snapshot() []model.PriceSample {
	out := make([]model.PriceSample, len(w.samples))
	copy(out, w.samples)
	return out
}

// Size returns the number of retained samples.
func (w *SampleWindow) Size() int {
	return len(w.samples)
}
