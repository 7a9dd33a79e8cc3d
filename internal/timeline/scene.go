package timeline

import "sort"

// Scene owns the layers of one loaded project together with the single
// current playback time.
type Scene struct {
	Width, Height int
	FPS           int
	Duration      float64
	Background    string

	layers []*Layer
	time   float64
}

// NewScene builds an empty scene with a black background.
func NewScene(width, height, fps int, duration float64) *Scene {
	return &Scene{
		Width:      width,
		Height:     height,
		FPS:        fps,
		Duration:   duration,
		Background: "#000000",
	}
}

// AddLayer appends a layer. Insertion order is remembered and breaks
// z-index ties in paint order.
func (s *Scene) AddLayer(l *Layer) {
	l.seq = len(s.layers)
	s.layers = append(s.layers, l)
}

// Layer returns the layer with the given id, or nil.
func (s *Scene) Layer(id string) *Layer {
	for _, l := range s.layers {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// Layers returns all layers in insertion order.
func (s *Scene) Layers() []*Layer { return s.layers }

// Time returns the current scene time.
func (s *Scene) Time() float64 { return s.time }

// SetTime clamps t to [0, Duration] and re-evaluates the tracked
// properties of every owned layer at the clamped time.
func (s *Scene) SetTime(t float64) {
	if t < 0 {
		t = 0
	}
	if t > s.Duration {
		t = s.Duration
	}
	s.time = t
	for _, l := range s.layers {
		l.EvaluateAt(t)
	}
}

// ActiveLayers returns the layers eligible for painting at time t in
// paint order: ascending z-index, insertion order on ties. The order is
// stable and reproducible for a given t.
func (s *Scene) ActiveLayers(t float64) []*Layer {
	out := make([]*Layer, 0, len(s.layers))
	for _, l := range s.layers {
		if l.ActiveAt(t) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}
