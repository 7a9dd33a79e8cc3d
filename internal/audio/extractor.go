package audio

// Source supplies spectrum and waveform buffers for a media time.
// Implementations must be deterministic per t and must not block:
// ReadAt is called from inside the render path.
type Source interface {
	// ReadAt fills freq and wave for media time t, returning false when
	// no data can be produced at all.
	ReadAt(t float64, freq, wave []byte) bool
	Close() error
}

// Options configure an Extractor. Zero values select the defaults.
type Options struct {
	Bins          int     // frequency buffer length, default 64
	WaveSize      int     // time-domain buffer length, default 256
	BPM           float64 // synthetic generator tempo, default 120
	BeatThreshold float64 // default 1.5
	BeatHoldMS    float64 // default 250
}

// Extractor turns raw audio buffers into the per-frame analysis sample:
// band energies, envelope, peak and the beat flag. With no source
// attached (or a source that cannot deliver) it falls back to the
// deterministic synthetic generator, so the rest of the pipeline never
// sees an absent sample.
type Extractor struct {
	source Source
	synth  *Synth
	beats  *BeatDetector

	freq []byte
	wave []byte
}

// NewExtractor builds an extractor with no live source attached.
func NewExtractor(opts Options) *Extractor {
	if opts.Bins <= 0 {
		opts.Bins = 64
	}
	if opts.WaveSize <= 0 {
		opts.WaveSize = 256
	}
	return &Extractor{
		synth: NewSynth(opts.BPM),
		beats: NewBeatDetector(opts.BeatThreshold, opts.BeatHoldMS),
		freq:  make([]byte, opts.Bins),
		wave:  make([]byte, opts.WaveSize),
	}
}

// SetSource attaches a live feature source; nil detaches and returns
// the extractor to synthetic data.
func (e *Extractor) SetSource(src Source) { e.source = src }

// HasSource reports whether a live source is attached.
func (e *Extractor) HasSource() bool { return e.source != nil }

// SampleAt produces the analysis sample for media time t. The returned
// buffers alias internal scratch space and stay valid until the next
// call.
func (e *Extractor) SampleAt(t float64) Sample {
	ok := false
	if e.source != nil {
		ok = e.source.ReadAt(t, e.freq, e.wave)
	}
	if !ok {
		e.synth.Fill(t, e.freq, e.wave)
	}

	bass, mid, treble, avg, peak := analyze(e.freq)
	return Sample{
		Frequency:  e.freq,
		TimeDomain: e.wave,
		Bass:       bass,
		Mid:        mid,
		Treble:     treble,
		Average:    avg,
		Peak:       peak,
		Beat:       e.beats.Detect(bass, t),
	}
}

// Reset clears beat-detector state. Call after seeks and loop wraps so
// the debounce clock does not suppress beats behind the new position.
func (e *Extractor) Reset() { e.beats.Reset() }

// Close releases the attached source, if any.
func (e *Extractor) Close() error {
	if e.source != nil {
		return e.source.Close()
	}
	return nil
}
