package timeline

import (
	"sort"

	"github.com/ivlev/promo2video/internal/easing"
)

// Keyframe pins a property value at one moment. Easing names the pacing
// function applied to the segment that ends at this keyframe.
type Keyframe struct {
	Time   float64
	Value  Value
	Easing string
}

// PropertyTrack holds the keyframes of one animated property, kept
// time-sorted with unique times.
type PropertyTrack struct {
	keys []Keyframe
}

// Insert adds a keyframe preserving time order. Inserting at an already
// occupied time replaces the existing keyframe in place.
func (tr *PropertyTrack) Insert(k Keyframe) {
	i := sort.Search(len(tr.keys), func(i int) bool { return tr.keys[i].Time >= k.Time })
	if i < len(tr.keys) && tr.keys[i].Time == k.Time {
		tr.keys[i] = k
		return
	}
	tr.keys = append(tr.keys, Keyframe{})
	copy(tr.keys[i+1:], tr.keys[i:])
	tr.keys[i] = k
}

// Len returns the number of keyframes.
func (tr *PropertyTrack) Len() int { return len(tr.keys) }

// Keyframes exposes the time-ordered keyframes. The returned slice must
// not be mutated.
func (tr *PropertyTrack) Keyframes() []Keyframe { return tr.keys }

// Evaluate computes the track value at time t. The boolean is false for
// an empty track. Before the first keyframe the first value is returned
// and after the last the last value; there is no extrapolation.
func (tr *PropertyTrack) Evaluate(t float64) (Value, bool) {
	if len(tr.keys) == 0 {
		return Value{}, false
	}
	if t <= tr.keys[0].Time {
		return tr.keys[0].Value, true
	}
	if t >= tr.keys[len(tr.keys)-1].Time {
		return tr.keys[len(tr.keys)-1].Value, true
	}

	// Bounding pair with k1.Time <= t < k2.Time.
	i := sort.Search(len(tr.keys), func(i int) bool { return tr.keys[i].Time > t })
	k1, k2 := tr.keys[i-1], tr.keys[i]

	span := k2.Time - k1.Time
	if span <= 0 {
		return k2.Value, true
	}
	p := (t - k1.Time) / span
	p = easing.Resolve(k2.Easing)(p)
	return Interp(k1.Value, k2.Value, p), true
}
