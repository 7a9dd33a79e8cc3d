package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math/cmplx"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hajimehoshi/go-mp3"
	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

const (
	fileFFTSize      = 2048
	ffmpegDecodeRate = 44100
)

// FileSource analyses a fully decoded audio track. Decoding happens
// once at construction; ReadAt then windows the PCM around the
// requested media time and runs a Hann-windowed FFT, so every pull is a
// pure function of t. Past either end of the track it reports silence
// rather than failure, which keeps export tails stable.
type FileSource struct {
	rate int
	mono []float64
	pcm  []byte // interleaved s16le stereo, kept for playback

	segment []float64
	hann    []float64
	mags    []float64
}

// NewFileSource decodes path into memory. MP3 is decoded natively;
// everything else goes through an ffmpeg PCM pipe.
func NewFileSource(path string) (*FileSource, error) {
	var (
		pcm  []byte
		rate int
		err  error
	)
	if strings.ToLower(filepath.Ext(path)) == ".mp3" {
		pcm, rate, err = decodeMP3(path)
	} else {
		pcm, rate, err = decodeFFmpeg(path)
	}
	if err != nil {
		return nil, err
	}
	return newFileSourceFromPCM(pcm, rate), nil
}

func newFileSourceFromPCM(pcm []byte, rate int) *FileSource {
	frames := len(pcm) / 4
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		l := int16(binary.LittleEndian.Uint16(pcm[i*4:]))
		r := int16(binary.LittleEndian.Uint16(pcm[i*4+2:]))
		mono[i] = (float64(l) + float64(r)) / 2 / 32768
	}
	return &FileSource{
		rate:    rate,
		mono:    mono,
		pcm:     pcm,
		segment: make([]float64, fileFFTSize),
		hann:    window.Hann(fileFFTSize),
		mags:    make([]float64, fileFFTSize/2),
	}
}

func decodeMP3(path string) ([]byte, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, 0, fmt.Errorf("mp3 decode: %w", err)
	}
	// go-mp3 always emits interleaved s16le stereo.
	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, 0, fmt.Errorf("mp3 read: %w", err)
	}
	return pcm, dec.SampleRate(), nil
}

func decodeFFmpeg(path string) ([]byte, int, error) {
	cmd := exec.Command("ffmpeg", "-v", "error",
		"-i", path,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(ffmpegDecodeRate),
		"-ac", "2",
		"pipe:1",
	)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	if err := cmd.Run(); err != nil {
		return nil, 0, fmt.Errorf("ffmpeg decode %s: %v: %s", filepath.Base(path), err, strings.TrimSpace(errb.String()))
	}
	return out.Bytes(), ffmpegDecodeRate, nil
}

// Duration returns the decoded track length in seconds.
func (f *FileSource) Duration() float64 {
	if f.rate == 0 {
		return 0
	}
	return float64(len(f.mono)) / float64(f.rate)
}

// SampleRate returns the PCM sample rate.
func (f *FileSource) SampleRate() int { return f.rate }

// PCMReader returns the decoded interleaved s16le stereo stream from
// the beginning, for handing to an audio player.
func (f *FileSource) PCMReader() io.Reader { return bytes.NewReader(f.pcm) }

// ReadAt fills freq with quantized spectrum magnitudes and wave with
// waveform bytes for media time t.
func (f *FileSource) ReadAt(t float64, freq, wave []byte) bool {
	if len(f.mono) == 0 {
		return false
	}
	center := int(t * float64(f.rate))

	half := fileFFTSize / 2
	for i := 0; i < fileFFTSize; i++ {
		idx := center - half + i
		v := 0.0
		if idx >= 0 && idx < len(f.mono) {
			v = f.mono[idx]
		}
		f.segment[i] = v * f.hann[i]
	}

	spec := fft.FFTReal(f.segment)
	for i := 0; i < half; i++ {
		f.mags[i] = cmplx.Abs(spec[i])
	}
	quantizeBins(f.mags, freq)

	wHalf := len(wave) / 2
	for i := range wave {
		idx := center - wHalf + i
		v := 0.0
		if idx >= 0 && idx < len(f.mono) {
			v = f.mono[idx]
		}
		wave[i] = waveByte(v)
	}
	return true
}

// Close is a no-op; the source holds no OS resources after decode.
func (f *FileSource) Close() error { return nil }

// quantizeBins folds FFT magnitudes into len(freq) groups and maps each
// group mean onto a byte. The scale is chosen so a full-scale sine
// lands near 255: a Hann window halves the coherent gain of N/2.
func quantizeBins(mags []float64, freq []byte) {
	bins := len(freq)
	if bins == 0 || len(mags) == 0 {
		return
	}
	for j := 0; j < bins; j++ {
		from := j * len(mags) / bins
		to := (j + 1) * len(mags) / bins
		if to <= from {
			to = from + 1
		}
		if to > len(mags) {
			to = len(mags)
		}
		sum := 0.0
		for _, m := range mags[from:to] {
			sum += m
		}
		mean := sum / float64(to-from)
		q := mean * 4 / fileFFTSize * 255
		if q > 255 {
			q = 255
		}
		freq[j] = byte(q)
	}
}
