package timeline

// LayerConfig is the type-specific payload of a layer. The variant set
// is closed; paint dispatch switches over the concrete types and treats
// anything else as a no-op.
type LayerConfig interface{ layerConfig() }

// BackgroundConfig paints a full-frame fill. Mode is one of "solid",
// "linear", "radial" or "image".
type BackgroundConfig struct {
	Mode   string
	Color  string  // solid fill or gradient start
	Color2 string  // gradient end
	Angle  float64 // linear gradient angle in radians
	Asset  string  // image mode source
}

func (BackgroundConfig) layerConfig() {}

// ImageConfig blits a decoded asset fitted into a local box of W×H
// pixels. Fit is "contain" or "cover".
type ImageConfig struct {
	Asset        string
	W, H         float64
	Fit          string
	CornerRadius float64
}

func (ImageConfig) layerConfig() {}

// TextConfig is handed to the text renderer together with the resolved
// layer position; glyph layout happens outside the engine.
type TextConfig struct {
	Text  string
	Font  string
	Size  float64
	Color string
	Align string // "left", "center" or "right"
	W, H  float64
}

func (TextConfig) layerConfig() {}

// ShapeConfig draws a filled and/or stroked primitive. Shape is one of
// "rect", "circle", "triangle", "polygon" or "line".
type ShapeConfig struct {
	Shape        string
	W, H         float64
	Radius       float64 // circle and polygon
	Sides        int     // polygon vertex count
	CornerRadius float64 // rect corners
	Fill         string  // hex color, empty for no fill
	Stroke       string  // hex color, empty for no stroke
	StrokeWidth  float64
	X2, Y2       float64 // line end point in local coordinates
}

func (ShapeConfig) layerConfig() {}

// ParticleConfig configures a particle-field layer. Life bounds are in
// simulation steps, speeds in pixels per second.
type ParticleConfig struct {
	W, H               float64
	MaxParticles       int
	EmissionRate       float64 // particles per second at full envelope
	BeatBurst          int
	SizeMin, SizeMax   float64
	SpeedMin, SpeedMax float64
	LifeMin, LifeMax   int
	Gravity            float64
	Turbulence         float64
	AttractX, AttractY float64 // attraction target as box fractions
	Attraction         float64
	Friction           float64
	Bounce             bool
	BounceLoss         float64
	Region             string // spawn region: "full", "bottom" or "center"
	Colors             []string
	Seed               int64
}

func (ParticleConfig) layerConfig() {}

// VisualizerConfig selects one audio-reactive visualizer and its
// appearance options. Kind is "spectrum", "waveform" or "circular";
// options not meaningful for the chosen kind are ignored.
type VisualizerConfig struct {
	Kind string
	W, H float64

	// Spectrum and circular banding.
	BarCount       int
	Sensitivity    float64
	Responsiveness float64
	RangeStart     float64
	RangeEnd       float64
	BarSpacing     float64
	CapFallSpeed   float64

	// Waveform.
	Style       string // "line", "filled", "mirrored", "bars", "dots"
	SampleCount int
	LineWidth   float64
	Smoothing   float64
	CatmullRom  bool
	BeatBoost   float64

	// Circular ring.
	Radius      float64 // base ring radius as a fraction of min(W,H)/2
	BarLength   float64 // max bar length as a fraction of min(W,H)/2
	BarWidth    float64
	RotateSpeed float64 // radians per second
	PulseAmount float64
	PulseDecay  float64
	Burst       bool
	BurstCount  int

	Color  string
	Color2 string
}

func (VisualizerConfig) layerConfig() {}
