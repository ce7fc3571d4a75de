package pipeline

import (
	"encoding/json"
	"math"
	"time"
)

// defaultWindow bounds the completion history used for throughput estimation.
const defaultWindow = 10

// Progress is the derived progress view of a run.
//
// ETA is seconds remaining and is +Inf while no throughput has been observed;
// consumers render non-finite values as a placeholder, never as a number.
type Progress struct {
	Current    int     `json:"current"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Speed      float64 `json:"speed"`
	ETA        float64 `json:"eta"`
}

// MarshalJSON renders a non-finite ETA as null so snapshots stay serializable.
func (p Progress) MarshalJSON() ([]byte, error) {
	out := struct {
		Current    int      `json:"current"`
		Total      int      `json:"total"`
		Percentage float64  `json:"percentage"`
		Speed      float64  `json:"speed"`
		ETA        *float64 `json:"eta"`
	}{
		Current:    p.Current,
		Total:      p.Total,
		Percentage: p.Percentage,
		Speed:      p.Speed,
	}
	if !math.IsInf(p.ETA, 0) && !math.IsNaN(p.ETA) {
		eta := p.ETA
		out.ETA = &eta
	}
	return json.Marshal(out)
}

// Estimator derives completion percentage, throughput, and ETA from a rolling
// window of per-item completion timestamps. Not safe for concurrent use; the
// controller serializes access.
type Estimator struct {
	window      int
	startedAt   time.Time
	completions []time.Time

	// now is swapped in tests
	now func() time.Time
}

// NewEstimator creates an Estimator with the given rolling window size.
// A non-positive window falls back to the default.
func NewEstimator(window int) *Estimator {
	if window <= 0 {
		window = defaultWindow
	}
	return &Estimator{window: window, now: time.Now}
}

// Start marks the beginning of a run and clears prior observations.
func (e *Estimator) Start() {
	e.startedAt = e.now()
	e.completions = e.completions[:0]
}

// Record notes one item completion at the current time.
func (e *Estimator) Record() {
	e.completions = append(e.completions, e.now())
	if len(e.completions) > e.window {
		e.completions = e.completions[len(e.completions)-e.window:]
	}
}

// Speed returns completed items per second over the rolling window,
// 0 until at least one completion has been observed.
func (e *Estimator) Speed() float64 {
	n := len(e.completions)
	if n == 0 {
		return 0
	}

	// With a single observation the run start anchors the interval; once the
	// window has two or more points the oldest completion does.
	var elapsed time.Duration
	count := n
	if n == 1 {
		elapsed = e.completions[0].Sub(e.startedAt)
	} else {
		elapsed = e.completions[n-1].Sub(e.completions[0])
		count = n - 1
	}

	if elapsed <= 0 {
		return 0
	}
	return float64(count) / elapsed.Seconds()
}

// Percentage returns 100 * current / total, or 0 when total is 0.
func Percentage(current, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(current) / float64(total)
}

// ETA returns estimated seconds remaining, +Inf while speed is unknown, and 0
// once the run is done.
func (e *Estimator) ETA(current, total int) float64 {
	remaining := total - current
	if remaining <= 0 {
		return 0
	}
	speed := e.Speed()
	if speed <= 0 {
		return math.Inf(1)
	}
	return float64(remaining) / speed
}

// Snapshot assembles the full [Progress] view for the given counters.
func (e *Estimator) Snapshot(current, total int) Progress {
	return Progress{
		Current:    current,
		Total:      total,
		Percentage: Percentage(current, total),
		Speed:      e.Speed(),
		ETA:        e.ETA(current, total),
	}
}
