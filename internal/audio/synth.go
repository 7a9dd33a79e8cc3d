package audio

import "math"

// Synth fabricates spectrum and waveform buffers from elapsed time and
// a target tempo. It stands in for a decoded track during silent
// preview and in tests: the output is a pure function of t.
type Synth struct {
	BPM float64
}

// NewSynth builds a generator; a non-positive tempo selects 120 BPM.
func NewSynth(bpm float64) *Synth {
	if bpm <= 0 {
		bpm = 120
	}
	return &Synth{BPM: bpm}
}

// Fill writes deterministic buffers for media time t. The bass bins
// carry a kick envelope locked to the tempo, the rest of the spectrum
// gets a sloped bed with slow movement and a little shimmer.
func (g *Synth) Fill(t float64, freq, wave []byte) {
	beats := t * g.BPM / 60
	phase := beats - math.Floor(beats)
	pulse := math.Exp(-5 * phase)

	n := len(freq)
	for i := 0; i < n; i++ {
		pos := 0.0
		if n > 1 {
			pos = float64(i) / float64(n)
		}
		level := (0.58 - 0.40*pos) * (0.80 + 0.20*math.Sin(2*math.Pi*(t*0.23+pos*3)))
		level += 0.06 * math.Sin(2*math.Pi*(t*1.7+pos*23))
		if pos < 0.1 {
			level += pulse * (0.95 - 4.5*pos)
		}
		freq[i] = levelByte(level)
	}

	for i := range wave {
		ph := float64(i) / float64(len(wave))
		v := 0.45*math.Sin(2*math.Pi*(ph*3+t*1.31)) + 0.20*math.Sin(2*math.Pi*(ph*7-t*0.77))
		v *= 0.55 + 0.45*pulse
		wave[i] = waveByte(v)
	}
}

func levelByte(v float64) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v * 255)
}

func waveByte(v float64) byte {
	s := 128 + v*127
	if s < 0 {
		return 0
	}
	if s > 255 {
		return 255
	}
	return byte(s)
}
