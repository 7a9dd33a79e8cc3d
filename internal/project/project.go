// Package project defines the declarative description of a promo video:
// canvas, audio, layers, keyframes and audio-reactive bindings. Files
// are YAML, produced by hand or by an external template compiler.
package project

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Project is the root of a video description.
type Project struct {
	Version    string     `yaml:"version"`
	Name       string     `yaml:"name,omitempty"`
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	FPS        int        `yaml:"fps"`
	Duration   float64    `yaml:"duration"` // seconds
	Background string     `yaml:"background,omitempty"`
	Audio      Audio      `yaml:"audio,omitempty"`
	Layers     []Layer    `yaml:"layers"`
	Keyframes  []Keyframe `yaml:"keyframes,omitempty"`
	Bindings   []Binding  `yaml:"bindings,omitempty"`
}

// Audio attaches a soundtrack. Without a path the features come from
// the synthetic generator driven by bpm.
type Audio struct {
	Path          string  `yaml:"path,omitempty"`
	BPM           float64 `yaml:"bpm,omitempty"`
	BeatThreshold float64 `yaml:"beatThreshold,omitempty"`
	BeatHoldMS    float64 `yaml:"beatHoldMs,omitempty"`
}

// Layer is one element of the composition. Exactly one of the typed
// option blocks should match the declared type; the others are ignored.
type Layer struct {
	ID      string   `yaml:"id,omitempty"` // generated when empty
	Type    string   `yaml:"type"`
	Z       int      `yaml:"z"`
	Hidden  bool     `yaml:"hidden,omitempty"`
	Start   float64  `yaml:"start"`
	End     float64  `yaml:"end,omitempty"` // 0 means the project duration
	TrimIn  float64  `yaml:"trimIn,omitempty"`
	TrimOut float64  `yaml:"trimOut,omitempty"`
	Opacity *float64 `yaml:"opacity,omitempty"` // nil means 1

	// Static transform, overridden per-frame by keyframe tracks.
	X        float64  `yaml:"x,omitempty"`
	Y        float64  `yaml:"y,omitempty"`
	Scale    *float64 `yaml:"scale,omitempty"` // uniform, expanded to both axes
	ScaleX   *float64 `yaml:"scaleX,omitempty"`
	ScaleY   *float64 `yaml:"scaleY,omitempty"`
	Rotation float64  `yaml:"rotation,omitempty"` // radians
	AnchorX  *float64 `yaml:"anchorX,omitempty"`  // box fraction, default 0.5
	AnchorY  *float64 `yaml:"anchorY,omitempty"`

	Background *BackgroundOptions `yaml:"background,omitempty"`
	Image      *ImageOptions      `yaml:"image,omitempty"`
	Text       *TextOptions       `yaml:"text,omitempty"`
	Shape      *ShapeOptions      `yaml:"shape,omitempty"`
	Particles  *ParticleOptions   `yaml:"particles,omitempty"`
	Visualizer *VisualizerOptions `yaml:"visualizer,omitempty"`
}

// Keyframe pins one property of one layer at one time. Values are
// numbers, hex color strings or numeric arrays; easing names the curve
// into this keyframe.
type Keyframe struct {
	Layer    string  `yaml:"layer"`
	Time     float64 `yaml:"time"`
	Property string  `yaml:"property"`
	Value    any     `yaml:"value"`
	Easing   string  `yaml:"easing,omitempty"`
}

// Binding modulates a layer property with a live audio feature.
type Binding struct {
	Layer     string  `yaml:"layer"`
	Feature   string  `yaml:"feature"`  // bass, mid, treble or average
	Property  string  `yaml:"property"` // scale, opacity or rotation
	Intensity float64 `yaml:"intensity"`
}

// BackgroundOptions paints the full frame behind other layers.
type BackgroundOptions struct {
	Mode   string  `yaml:"mode,omitempty"` // solid, linear, radial, image
	Color  string  `yaml:"color,omitempty"`
	Color2 string  `yaml:"color2,omitempty"`
	Angle  float64 `yaml:"angle,omitempty"` // linear gradient angle, radians
	Asset  string  `yaml:"asset,omitempty"`
}

// ImageOptions blits an asset fitted into a local box.
type ImageOptions struct {
	Asset        string  `yaml:"asset"`
	Width        float64 `yaml:"width,omitempty"`  // 0 means the project width
	Height       float64 `yaml:"height,omitempty"` // 0 means the project height
	Fit          string  `yaml:"fit,omitempty"`    // contain (default) or cover
	CornerRadius float64 `yaml:"cornerRadius,omitempty"`
}

// TextOptions renders a string through the text renderer. Width and
// height define the box alignment and anchoring act on; zero means a
// point box at the layer position.
type TextOptions struct {
	Text   string  `yaml:"text"`
	Font   string  `yaml:"font,omitempty"`
	Size   float64 `yaml:"size,omitempty"`
	Color  string  `yaml:"color,omitempty"`
	Align  string  `yaml:"align,omitempty"`
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`
}

// ShapeOptions draws a primitive.
type ShapeOptions struct {
	Kind         string  `yaml:"kind"` // rect, circle, triangle, polygon, line
	Width        float64 `yaml:"width,omitempty"`
	Height       float64 `yaml:"height,omitempty"`
	Radius       float64 `yaml:"radius,omitempty"`
	Sides        int     `yaml:"sides,omitempty"`
	CornerRadius float64 `yaml:"cornerRadius,omitempty"`
	Fill         string  `yaml:"fill,omitempty"`
	Stroke       string  `yaml:"stroke,omitempty"`
	StrokeWidth  float64 `yaml:"strokeWidth,omitempty"`
	X2           float64 `yaml:"x2,omitempty"` // line end point
	Y2           float64 `yaml:"y2,omitempty"`
}

// ParticleOptions configures a particle-field layer.
type ParticleOptions struct {
	Width        float64  `yaml:"width,omitempty"`
	Height       float64  `yaml:"height,omitempty"`
	MaxParticles int      `yaml:"maxParticles,omitempty"`
	EmissionRate float64  `yaml:"emissionRate,omitempty"`
	BeatBurst    int      `yaml:"beatBurst,omitempty"`
	SizeMin      float64  `yaml:"sizeMin,omitempty"`
	SizeMax      float64  `yaml:"sizeMax,omitempty"`
	SpeedMin     float64  `yaml:"speedMin,omitempty"`
	SpeedMax     float64  `yaml:"speedMax,omitempty"`
	LifeMin      int      `yaml:"lifeMin,omitempty"`
	LifeMax      int      `yaml:"lifeMax,omitempty"`
	Gravity      float64  `yaml:"gravity,omitempty"`
	Turbulence   float64  `yaml:"turbulence,omitempty"`
	AttractX     float64  `yaml:"attractX,omitempty"`
	AttractY     float64  `yaml:"attractY,omitempty"`
	Attraction   float64  `yaml:"attraction,omitempty"`
	Friction     float64  `yaml:"friction,omitempty"`
	Bounce       bool     `yaml:"bounce,omitempty"`
	BounceLoss   float64  `yaml:"bounceLoss,omitempty"`
	Region       string   `yaml:"region,omitempty"`
	Colors       []string `yaml:"colors,omitempty"`
	Seed         int64    `yaml:"seed,omitempty"`
}

// VisualizerOptions selects and tunes one audio-reactive visualizer.
type VisualizerOptions struct {
	Kind   string  `yaml:"kind"` // spectrum, waveform or circular
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`

	BarCount       int     `yaml:"barCount,omitempty"`
	Sensitivity    float64 `yaml:"sensitivity,omitempty"`
	Responsiveness float64 `yaml:"responsiveness,omitempty"`
	RangeStart     float64 `yaml:"rangeStart,omitempty"`
	RangeEnd       float64 `yaml:"rangeEnd,omitempty"`
	BarSpacing     float64 `yaml:"barSpacing,omitempty"`
	CapFallSpeed   float64 `yaml:"capFallSpeed,omitempty"`

	Style       string  `yaml:"style,omitempty"`
	SampleCount int     `yaml:"sampleCount,omitempty"`
	LineWidth   float64 `yaml:"lineWidth,omitempty"`
	Smoothing   float64 `yaml:"smoothing,omitempty"`
	CatmullRom  bool    `yaml:"catmullRom,omitempty"`
	BeatBoost   float64 `yaml:"beatBoost,omitempty"`

	Radius      float64 `yaml:"radius,omitempty"`
	BarLength   float64 `yaml:"barLength,omitempty"`
	BarWidth    float64 `yaml:"barWidth,omitempty"`
	RotateSpeed float64 `yaml:"rotateSpeed,omitempty"`
	PulseAmount float64 `yaml:"pulseAmount,omitempty"`
	PulseDecay  float64 `yaml:"pulseDecay,omitempty"`
	Burst       bool    `yaml:"burst,omitempty"`
	BurstCount  int     `yaml:"burstCount,omitempty"`

	Color  string `yaml:"color,omitempty"`
	Color2 string `yaml:"color2,omitempty"`
}

// Write saves a project to a YAML file.
func Write(p *Project, path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Read loads a project from a YAML file. The result is raw: call
// Normalize and Validate before building a scene from it.
func Read(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}

	return &p, nil
}
