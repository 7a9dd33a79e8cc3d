package timeline

// Transform places a layer on the canvas: translation, non-uniform
// scale, rotation in radians and an anchor point expressed as a
// fraction of the layer box in each axis.
type Transform struct {
	X, Y             float64
	ScaleX, ScaleY   float64
	Rotation         float64
	AnchorX, AnchorY float64
}

// IdentityTransform returns the neutral transform: zero position, unit
// scale, no rotation, centered anchor.
func IdentityTransform() Transform {
	return Transform{ScaleX: 1, ScaleY: 1, AnchorX: 0.5, AnchorY: 0.5}
}

// LayerType tags the drawing routine a layer dispatches to.
type LayerType string

const (
	TypeBackground LayerType = "background"
	TypeImage      LayerType = "image"
	TypeText       LayerType = "text"
	TypeShape      LayerType = "shape"
	TypeParticle   LayerType = "particle"
	TypeVisualizer LayerType = "visualizer"
)

// Layer is one element of a scene. Opacity and Transform carry the
// values resolved by the last Scene.SetTime: properties with a track
// are overwritten every frame, untracked transform fields keep whatever
// was set manually, and untracked opacity falls back to BaseOpacity.
type Layer struct {
	ID     string
	Type   LayerType
	ZIndex int
	Hidden bool

	// Active window in scene time, trimmed at both ends.
	Start, End      float64
	TrimIn, TrimOut float64

	BaseOpacity float64
	Opacity     float64
	Transform   Transform
	Config      LayerConfig

	tracks map[string]*PropertyTrack
	seq    int
}

// NewLayer builds a visible layer with full opacity and an identity
// transform.
func NewLayer(id string, typ LayerType) *Layer {
	return &Layer{
		ID:          id,
		Type:        typ,
		BaseOpacity: 1,
		Opacity:     1,
		Transform:   IdentityTransform(),
		tracks:      make(map[string]*PropertyTrack),
	}
}

// AddKeyframe inserts a keyframe into the named property track,
// creating the track on first use.
func (l *Layer) AddKeyframe(property string, k Keyframe) {
	tr := l.tracks[property]
	if tr == nil {
		tr = &PropertyTrack{}
		l.tracks[property] = tr
	}
	tr.Insert(k)
}

// Track returns the named property track, or nil if none exists.
func (l *Layer) Track(property string) *PropertyTrack {
	return l.tracks[property]
}

// ValueAt evaluates the named property track at time t. ok is false
// when the property has no track or the track is empty.
func (l *Layer) ValueAt(property string, t float64) (Value, bool) {
	tr := l.tracks[property]
	if tr == nil {
		return Value{}, false
	}
	return tr.Evaluate(t)
}

// Evaluate resolves the named property at time t, falling back to the
// property's static default when no track exists: base opacity for
// "opacity", identity values for transform properties.
func (l *Layer) Evaluate(property string, t float64) Value {
	if v, ok := l.ValueAt(property, t); ok {
		return v
	}
	switch property {
	case "opacity":
		return Number(l.BaseOpacity)
	case "scaleX", "scaleY":
		return Number(1)
	case "anchorX", "anchorY":
		return Number(0.5)
	}
	return Number(0)
}

// EvaluateAt overwrites the resolved opacity and transform fields from
// the layer's tracks at time t. This is the single authoritative
// mutation path: once a frame is rendered, tracked values always win
// over manual field writes.
func (l *Layer) EvaluateAt(t float64) {
	if v, ok := l.numberAt("opacity", t); ok {
		l.Opacity = clamp01(v)
	} else {
		l.Opacity = clamp01(l.BaseOpacity)
	}
	l.Transform.X = l.trackedNumber("x", t, l.Transform.X)
	l.Transform.Y = l.trackedNumber("y", t, l.Transform.Y)
	l.Transform.ScaleX = l.trackedNumber("scaleX", t, l.Transform.ScaleX)
	l.Transform.ScaleY = l.trackedNumber("scaleY", t, l.Transform.ScaleY)
	l.Transform.Rotation = l.trackedNumber("rotation", t, l.Transform.Rotation)
	l.Transform.AnchorX = l.trackedNumber("anchorX", t, l.Transform.AnchorX)
	l.Transform.AnchorY = l.trackedNumber("anchorY", t, l.Transform.AnchorY)
}

func (l *Layer) numberAt(property string, t float64) (float64, bool) {
	v, ok := l.ValueAt(property, t)
	if !ok || v.Kind != KindNumber {
		return 0, false
	}
	return v.Num, true
}

func (l *Layer) trackedNumber(property string, t, current float64) float64 {
	if v, ok := l.numberAt(property, t); ok {
		return v
	}
	return current
}

// ActiveAt reports whether the layer is eligible for painting at time
// t: inside its trimmed window and not hidden.
func (l *Layer) ActiveAt(t float64) bool {
	if l.Hidden {
		return false
	}
	return t >= l.Start+l.TrimIn && t <= l.End-l.TrimOut
}
