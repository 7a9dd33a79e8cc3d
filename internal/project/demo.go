package project

// Demo builds a self-contained sample project: gradient background,
// animated titles, a spectrum and a circular visualizer, particles and
// a generated QR code, driven by the synthetic beat generator. It needs
// no asset files on disk and is what the -demo CLI flag writes out.
func Demo() *Project {
	p := &Project{
		Version:    "1",
		Name:       "demo",
		Width:      1920,
		Height:     1080,
		FPS:        30,
		Duration:   12,
		Background: "#0f172a",
		Audio:      Audio{BPM: 120},
		Layers: []Layer{
			{
				ID:   "bg",
				Type: "background",
				Z:    0,
				Background: &BackgroundOptions{
					Mode:   "linear",
					Color:  "#0f172a",
					Color2: "#312e81",
					Angle:  1.1,
				},
			},
			{
				ID:      "glow",
				Type:    "shape",
				Z:       1,
				X:       540,
				Y:       120,
				Opacity: fp(0.25),
				Shape:   &ShapeOptions{Kind: "circle", Radius: 420, Fill: "#1d4ed8"},
			},
			{
				ID:   "dust",
				Type: "particle",
				Z:    2,
				Particles: &ParticleOptions{
					MaxParticles: 260,
					EmissionRate: 90,
					BeatBurst:    24,
					SizeMin:      1.5,
					SizeMax:      4,
					SpeedMin:     40,
					SpeedMax:     160,
					LifeMin:      50,
					LifeMax:      140,
					Gravity:      -30,
					Turbulence:   55,
					Region:       "bottom",
					Colors:       []string{"#38bdf8", "#a5b4fc", "#f0f9ff"},
				},
			},
			{
				ID:   "bars",
				Type: "visualizer",
				Z:    3,
				X:    160,
				Y:    700,
				Visualizer: &VisualizerOptions{
					Kind:       "spectrum",
					Width:      1600,
					Height:     320,
					BarCount:   48,
					BarSpacing: 6,
					Color:      "#22d3ee",
					Color2:     "#e879f9",
				},
			},
			{
				ID:   "ring",
				Type: "visualizer",
				Z:    3,
				X:    1540,
				Y:    60,
				Visualizer: &VisualizerOptions{
					Kind:       "circular",
					Width:      320,
					Height:     320,
					BarCount:   40,
					Burst:      true,
					BurstCount: 10,
					Color:      "#f472b6",
				},
			},
			{
				ID:   "title",
				Type: "text",
				Z:    5,
				X:    960,
				Y:    540,
				Text: &TextOptions{Text: "PROMO NIGHT", Size: 120, Color: "#f8fafc"},
			},
			{
				ID:   "subtitle",
				Type: "text",
				Z:    5,
				X:    960,
				Y:    660,
				Text: &TextOptions{Text: "every friday / club nova", Size: 44, Color: "#94a3b8"},
			},
			{
				ID:    "tickets",
				Type:  "image",
				Z:     6,
				X:     1650,
				Y:     850,
				Start: 8,
				Image: &ImageOptions{
					Asset:        "qr:https://example.com/tickets",
					Width:        220,
					Height:       220,
					CornerRadius: 18,
				},
			},
		},
		Keyframes: []Keyframe{
			{Layer: "title", Time: 0, Property: "y", Value: 640},
			{Layer: "title", Time: 0.8, Property: "y", Value: 540, Easing: "easeOutBack"},
			{Layer: "title", Time: 0, Property: "opacity", Value: 0},
			{Layer: "title", Time: 0.8, Property: "opacity", Value: 1, Easing: "easeOutCubic"},
			{Layer: "subtitle", Time: 0.4, Property: "opacity", Value: 0},
			{Layer: "subtitle", Time: 1.4, Property: "opacity", Value: 1, Easing: "easeOutCubic"},
			{Layer: "tickets", Time: 8, Property: "opacity", Value: 0},
			{Layer: "tickets", Time: 8.6, Property: "opacity", Value: 1, Easing: "easeOutCubic"},
			{Layer: "glow", Time: 0, Property: "fill", Value: "#1d4ed8"},
			{Layer: "glow", Time: 6, Property: "fill", Value: "#7c3aed", Easing: "easeInOutSine"},
			{Layer: "glow", Time: 12, Property: "fill", Value: "#1d4ed8", Easing: "easeInOutSine"},
		},
		Bindings: []Binding{
			{Layer: "glow", Feature: "bass", Property: "scale", Intensity: 0.5},
			{Layer: "title", Feature: "bass", Property: "scale", Intensity: 0.12},
			{Layer: "ring", Feature: "treble", Property: "rotation", Intensity: 0.6},
		},
	}

	p.Normalize()
	return p
}

func fp(v float64) *float64 { return &v }
