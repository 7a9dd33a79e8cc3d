package project

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ivlev/promo2video/internal/timeline"
)

const (
	defaultWidth    = 1920
	defaultHeight   = 1080
	defaultFPS      = 30
	defaultDuration = 10.0

	maxDimension = 7680
	minDimension = 16
	maxFPS       = 240
	maxDuration  = 3600.0
)

var layerTypes = map[string]timeline.LayerType{
	"background": timeline.TypeBackground,
	"image":      timeline.TypeImage,
	"text":       timeline.TypeText,
	"shape":      timeline.TypeShape,
	"particle":   timeline.TypeParticle,
	"visualizer": timeline.TypeVisualizer,
}

var bindingFeatures = map[string]bool{
	"bass":    true,
	"mid":     true,
	"treble":  true,
	"average": true,
}

var bindingProperties = map[string]bool{
	"scale":    true,
	"opacity":  true,
	"rotation": true,
}

// Normalize fills defaults in place: canvas size, frame rate, duration,
// background, generated layer ids and per-layer end times. It is safe
// to call more than once.
func (p *Project) Normalize() {
	if p.Version == "" {
		p.Version = "1"
	}
	if p.Width <= 0 {
		p.Width = defaultWidth
	}
	if p.Height <= 0 {
		p.Height = defaultHeight
	}
	if p.FPS <= 0 {
		p.FPS = defaultFPS
	}
	if p.Duration <= 0 {
		p.Duration = longestLayerEnd(p.Layers)
	}
	if p.Background == "" {
		p.Background = "#000000"
	}

	for i := range p.Layers {
		l := &p.Layers[i]
		l.Type = strings.ToLower(strings.TrimSpace(l.Type))
		if l.ID == "" {
			l.ID = uuid.NewString()
		}
		if l.Start < 0 {
			l.Start = 0
		}
		if l.End <= 0 {
			l.End = p.Duration
		}
		if l.TrimIn < 0 {
			l.TrimIn = 0
		}
		if l.TrimOut < 0 {
			l.TrimOut = 0
		}
	}
}

func longestLayerEnd(layers []Layer) float64 {
	end := 0.0
	for _, l := range layers {
		if l.End > end {
			end = l.End
		}
	}
	if end <= 0 {
		end = defaultDuration
	}
	return end
}

// Validate checks a normalized project for mistakes that would produce
// an unusable scene. It reports the first problem found.
func (p *Project) Validate() error {
	if p.Width < minDimension || p.Width > maxDimension {
		return fmt.Errorf("width %d out of range [%d, %d]", p.Width, minDimension, maxDimension)
	}
	if p.Height < minDimension || p.Height > maxDimension {
		return fmt.Errorf("height %d out of range [%d, %d]", p.Height, minDimension, maxDimension)
	}
	if p.FPS < 1 || p.FPS > maxFPS {
		return fmt.Errorf("fps %d out of range [1, %d]", p.FPS, maxFPS)
	}
	if p.Duration <= 0 || p.Duration > maxDuration {
		return fmt.Errorf("duration %.2f out of range (0, %.0f]", p.Duration, maxDuration)
	}

	ids := make(map[string]bool, len(p.Layers))
	for i := range p.Layers {
		l := &p.Layers[i]
		if _, ok := layerTypes[l.Type]; !ok {
			return fmt.Errorf("layer %q: unknown type %q", l.ID, l.Type)
		}
		if ids[l.ID] {
			return fmt.Errorf("duplicate layer id %q", l.ID)
		}
		ids[l.ID] = true

		if l.End < l.Start {
			return fmt.Errorf("layer %q: end %.2f before start %.2f", l.ID, l.End, l.Start)
		}
		switch l.Type {
		case "image":
			if l.Image == nil || l.Image.Asset == "" {
				return fmt.Errorf("layer %q: image layer needs an asset", l.ID)
			}
		case "text":
			if l.Text == nil {
				return fmt.Errorf("layer %q: text layer needs a text block", l.ID)
			}
		case "shape":
			if l.Shape == nil || l.Shape.Kind == "" {
				return fmt.Errorf("layer %q: shape layer needs a kind", l.ID)
			}
		case "visualizer":
			if l.Visualizer == nil || l.Visualizer.Kind == "" {
				return fmt.Errorf("layer %q: visualizer layer needs a kind", l.ID)
			}
		}
	}

	for i, kf := range p.Keyframes {
		if !ids[kf.Layer] {
			return fmt.Errorf("keyframe %d: unknown layer %q", i, kf.Layer)
		}
		if kf.Property == "" {
			return fmt.Errorf("keyframe %d: empty property", i)
		}
		if _, err := timeline.FromAny(kf.Value); err != nil {
			return fmt.Errorf("keyframe %d (%s/%s): %w", i, kf.Layer, kf.Property, err)
		}
	}

	for i, b := range p.Bindings {
		if !ids[b.Layer] {
			return fmt.Errorf("binding %d: unknown layer %q", i, b.Layer)
		}
		if !bindingFeatures[b.Feature] {
			return fmt.Errorf("binding %d: unknown feature %q", i, b.Feature)
		}
		if !bindingProperties[b.Property] {
			return fmt.Errorf("binding %d: unknown property %q", i, b.Property)
		}
	}

	return nil
}

// BuildScene turns a normalized, valid project into a timeline scene
// with all layers, static transforms and keyframe tracks in place.
func (p *Project) BuildScene() (*timeline.Scene, error) {
	scene := timeline.NewScene(p.Width, p.Height, p.FPS, p.Duration)
	if p.Background != "" {
		scene.Background = p.Background
	}

	for i := range p.Layers {
		decl := &p.Layers[i]
		typ, ok := layerTypes[decl.Type]
		if !ok {
			return nil, fmt.Errorf("layer %q: unknown type %q", decl.ID, decl.Type)
		}

		l := timeline.NewLayer(decl.ID, typ)
		l.ZIndex = decl.Z
		l.Hidden = decl.Hidden
		l.Start = decl.Start
		l.End = decl.End
		l.TrimIn = decl.TrimIn
		l.TrimOut = decl.TrimOut
		if decl.Opacity != nil {
			l.BaseOpacity = clamp01(*decl.Opacity)
			l.Opacity = l.BaseOpacity
		}

		l.Transform.X = decl.X
		l.Transform.Y = decl.Y
		l.Transform.Rotation = decl.Rotation
		if decl.Scale != nil {
			l.Transform.ScaleX = *decl.Scale
			l.Transform.ScaleY = *decl.Scale
		}
		if decl.ScaleX != nil {
			l.Transform.ScaleX = *decl.ScaleX
		}
		if decl.ScaleY != nil {
			l.Transform.ScaleY = *decl.ScaleY
		}
		if decl.AnchorX != nil {
			l.Transform.AnchorX = *decl.AnchorX
		}
		if decl.AnchorY != nil {
			l.Transform.AnchorY = *decl.AnchorY
		}

		l.Config = p.layerConfig(decl, i)
		scene.AddLayer(l)
	}

	for i, kf := range p.Keyframes {
		l := scene.Layer(kf.Layer)
		if l == nil {
			return nil, fmt.Errorf("keyframe %d: unknown layer %q", i, kf.Layer)
		}
		v, err := timeline.FromAny(kf.Value)
		if err != nil {
			return nil, fmt.Errorf("keyframe %d (%s/%s): %w", i, kf.Layer, kf.Property, err)
		}
		k := timeline.Keyframe{Time: kf.Time, Value: v, Easing: kf.Easing}
		// A plain "scale" track drives both axes.
		if kf.Property == "scale" {
			l.AddKeyframe("scaleX", k)
			l.AddKeyframe("scaleY", k)
			continue
		}
		l.AddKeyframe(kf.Property, k)
	}

	return scene, nil
}

// layerConfig maps the YAML option block of one layer onto its timeline
// config. Zero sizes fall back to the project canvas.
func (p *Project) layerConfig(decl *Layer, index int) timeline.LayerConfig {
	w := float64(p.Width)
	h := float64(p.Height)

	switch decl.Type {
	case "background":
		o := decl.Background
		if o == nil {
			return timeline.BackgroundConfig{Mode: "solid", Color: p.Background}
		}
		cfg := timeline.BackgroundConfig{
			Mode:   o.Mode,
			Color:  o.Color,
			Color2: o.Color2,
			Angle:  o.Angle,
			Asset:  o.Asset,
		}
		if cfg.Mode == "" {
			cfg.Mode = "solid"
		}
		if cfg.Color == "" {
			cfg.Color = p.Background
		}
		return cfg

	case "image":
		o := decl.Image
		cfg := timeline.ImageConfig{
			Asset:        o.Asset,
			W:            o.Width,
			H:            o.Height,
			Fit:          o.Fit,
			CornerRadius: o.CornerRadius,
		}
		if cfg.W <= 0 {
			cfg.W = w
		}
		if cfg.H <= 0 {
			cfg.H = h
		}
		if cfg.Fit == "" {
			cfg.Fit = "contain"
		}
		return cfg

	case "text":
		o := decl.Text
		cfg := timeline.TextConfig{
			Text:  o.Text,
			Font:  o.Font,
			Size:  o.Size,
			Color: o.Color,
			Align: o.Align,
			W:     o.Width,
			H:     o.Height,
		}
		if cfg.Size <= 0 {
			cfg.Size = 48
		}
		if cfg.Color == "" {
			cfg.Color = "#ffffff"
		}
		if cfg.Align == "" {
			cfg.Align = "center"
		}
		return cfg

	case "shape":
		o := decl.Shape
		return timeline.ShapeConfig{
			Shape:        o.Kind,
			W:            o.Width,
			H:            o.Height,
			Radius:       o.Radius,
			Sides:        o.Sides,
			CornerRadius: o.CornerRadius,
			Fill:         o.Fill,
			Stroke:       o.Stroke,
			StrokeWidth:  o.StrokeWidth,
			X2:           o.X2,
			Y2:           o.Y2,
		}

	case "particle":
		cfg := timeline.ParticleConfig{W: w, H: h}
		if o := decl.Particles; o != nil {
			cfg = timeline.ParticleConfig{
				W:            o.Width,
				H:            o.Height,
				MaxParticles: o.MaxParticles,
				EmissionRate: o.EmissionRate,
				BeatBurst:    o.BeatBurst,
				SizeMin:      o.SizeMin,
				SizeMax:      o.SizeMax,
				SpeedMin:     o.SpeedMin,
				SpeedMax:     o.SpeedMax,
				LifeMin:      o.LifeMin,
				LifeMax:      o.LifeMax,
				Gravity:      o.Gravity,
				Turbulence:   o.Turbulence,
				AttractX:     o.AttractX,
				AttractY:     o.AttractY,
				Attraction:   o.Attraction,
				Friction:     o.Friction,
				Bounce:       o.Bounce,
				BounceLoss:   o.BounceLoss,
				Region:       o.Region,
				Colors:       o.Colors,
				Seed:         o.Seed,
			}
			if cfg.W <= 0 {
				cfg.W = w
			}
			if cfg.H <= 0 {
				cfg.H = h
			}
		}
		// Stable per-layer seed so two fields in one project diverge.
		if cfg.Seed == 0 {
			cfg.Seed = int64(index + 1)
		}
		return cfg

	case "visualizer":
		o := decl.Visualizer
		cfg := timeline.VisualizerConfig{
			Kind:           o.Kind,
			W:              o.Width,
			H:              o.Height,
			BarCount:       o.BarCount,
			Sensitivity:    o.Sensitivity,
			Responsiveness: o.Responsiveness,
			RangeStart:     o.RangeStart,
			RangeEnd:       o.RangeEnd,
			BarSpacing:     o.BarSpacing,
			CapFallSpeed:   o.CapFallSpeed,
			Style:          o.Style,
			SampleCount:    o.SampleCount,
			LineWidth:      o.LineWidth,
			Smoothing:      o.Smoothing,
			CatmullRom:     o.CatmullRom,
			BeatBoost:      o.BeatBoost,
			Radius:         o.Radius,
			BarLength:      o.BarLength,
			BarWidth:       o.BarWidth,
			RotateSpeed:    o.RotateSpeed,
			PulseAmount:    o.PulseAmount,
			PulseDecay:     o.PulseDecay,
			Burst:          o.Burst,
			BurstCount:     o.BurstCount,
			Color:          o.Color,
			Color2:         o.Color2,
		}
		if cfg.W <= 0 {
			cfg.W = w
		}
		if cfg.H <= 0 {
			cfg.H = h
		}
		return cfg
	}

	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
