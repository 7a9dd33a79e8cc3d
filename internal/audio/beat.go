package audio

import "math"

const beatHistorySize = 30

// BeatDetector signals beats from the stream of bass energies. A beat
// fires when the current bass exceeds Threshold times the rolling
// average of the recent history and at least HoldMS milliseconds of
// media time have passed since the previous beat. Debouncing on media
// time keeps preview and export on the same beat grid.
type BeatDetector struct {
	Threshold float64
	HoldMS    float64

	history  []float64
	lastBeat float64
}

// NewBeatDetector builds a detector; non-positive arguments select the
// defaults (threshold 1.5, hold 250 ms).
func NewBeatDetector(threshold, holdMS float64) *BeatDetector {
	if threshold <= 0 {
		threshold = 1.5
	}
	if holdMS <= 0 {
		holdMS = 250
	}
	return &BeatDetector{
		Threshold: threshold,
		HoldMS:    holdMS,
		history:   make([]float64, 0, beatHistorySize),
		lastBeat:  math.Inf(-1),
	}
}

// Detect consumes one bass sample at media time t (seconds) and reports
// whether it starts a beat. The sample is compared against the history
// first and appended after, so a spike is judged against the signal
// that preceded it.
func (d *BeatDetector) Detect(bass, t float64) bool {
	avg := 0.0
	if len(d.history) > 0 {
		for _, v := range d.history {
			avg += v
		}
		avg /= float64(len(d.history))
	}

	beat := bass > d.Threshold*avg && (t-d.lastBeat)*1000 >= d.HoldMS
	d.push(bass)
	if beat {
		d.lastBeat = t
	}
	return beat
}

// Reset clears the history and the debounce clock, e.g. after a seek.
func (d *BeatDetector) Reset() {
	d.history = d.history[:0]
	d.lastBeat = math.Inf(-1)
}

func (d *BeatDetector) push(v float64) {
	if len(d.history) < beatHistorySize {
		d.history = append(d.history, v)
		return
	}
	copy(d.history, d.history[1:])
	d.history[len(d.history)-1] = v
}
