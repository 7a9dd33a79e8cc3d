package audio

// Sample is one frame's worth of analyzed audio state. The buffers
// alias extractor scratch space and are valid until the next pull.
type Sample struct {
	Frequency  []byte // per-bin spectrum magnitudes, 0..255
	TimeDomain []byte // waveform samples centered on 128

	Bass    float64 // mean of the low tenth of the bins, 0..1
	Mid     float64 // mean of bins [10%,50%), 0..1
	Treble  float64 // mean of bins [50%,100%), 0..1
	Average float64 // mean of all bins, 0..1
	Peak    float64 // loudest bin, 0..1
	Beat    bool
}

// BandValue returns the named band scalar. Unknown names yield 0.
func (s *Sample) BandValue(name string) float64 {
	switch name {
	case "bass":
		return s.Bass
	case "mid":
		return s.Mid
	case "treble":
		return s.Treble
	case "average":
		return s.Average
	case "peak":
		return s.Peak
	}
	return 0
}

// BandRanges splits n frequency bins into the bass/mid/treble
// partition [0,n/10), [n/10,n/2), [n/2,n). The three ranges tile [0,n)
// exactly for any n.
func BandRanges(n int) (bassEnd, midEnd int) {
	return n / 10, n / 2
}

func analyze(freq []byte) (bass, mid, treble, avg, peak float64) {
	n := len(freq)
	if n == 0 {
		return
	}
	bassEnd, midEnd := BandRanges(n)
	bass = meanRange(freq, 0, bassEnd)
	mid = meanRange(freq, bassEnd, midEnd)
	treble = meanRange(freq, midEnd, n)
	avg = meanRange(freq, 0, n)

	var maxBin byte
	for _, v := range freq {
		if v > maxBin {
			maxBin = v
		}
	}
	peak = float64(maxBin) / 255
	return
}

func meanRange(buf []byte, from, to int) float64 {
	if to <= from {
		return 0
	}
	sum := 0.0
	for _, v := range buf[from:to] {
		sum += float64(v)
	}
	return sum / float64(to-from) / 255
}
