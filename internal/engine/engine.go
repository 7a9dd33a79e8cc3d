// Package engine drives the render pipeline: it owns the scene, the
// playback state machine, the audio extractor and the per-layer
// visualizer instances, and turns (project, time) into paint calls on
// the drawing surface.
package engine

import (
	"context"
	"fmt"
	"image"
	"log"
	"math"
	"time"

	"github.com/ivlev/promo2video/internal/asset"
	"github.com/ivlev/promo2video/internal/audio"
	"github.com/ivlev/promo2video/internal/project"
	"github.com/ivlev/promo2video/internal/surface"
	"github.com/ivlev/promo2video/internal/system"
	"github.com/ivlev/promo2video/internal/timeline"
	"github.com/ivlev/promo2video/internal/visualizer"
)

// State is the orchestrator lifecycle phase.
type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StateReady     State = "ready"
	StatePlaying   State = "playing"
	StatePaused    State = "paused"
	StateExporting State = "exporting"
	StateError     State = "error"
)

// Config wires an orchestrator to its collaborators. Surface is
// required; everything else has usable defaults. Callbacks are invoked
// synchronously from the render/driver path and must not block.
type Config struct {
	Surface      surface.Surface
	Assets       *asset.Store
	Capabilities system.Capabilities

	OnStateChange func(from, to State)
	OnTimeUpdate  func(t float64)
	OnFrame       func(frame int, t float64)
	OnError       func(err error)
}

// Orchestrator is the top-level render driver. It is not safe for
// concurrent use: one goroutine owns playback, export and the scene.
type Orchestrator struct {
	surf   surface.Surface
	assets *asset.Store
	caps   system.Capabilities
	cb     Config

	state State
	proj  *project.Project
	scene *timeline.Scene
	ex    *audio.Extractor
	vis   map[string]visualizer.Visualizer
	binds map[string][]project.Binding

	lastTick time.Time
	hasTick  bool
}

// NewOrchestrator builds an idle orchestrator. A missing drawing
// surface is an initialization failure.
func NewOrchestrator(cfg Config) (*Orchestrator, error) {
	if cfg.Surface == nil {
		return nil, fmt.Errorf("engine: no drawing surface")
	}
	if cfg.Assets == nil {
		cfg.Assets = asset.NewStore(0)
	}
	return &Orchestrator{
		surf:   cfg.Surface,
		assets: cfg.Assets,
		caps:   cfg.Capabilities,
		cb:     cfg,
		state:  StateIdle,
	}, nil
}

// State returns the current lifecycle phase.
func (o *Orchestrator) State() State { return o.state }

// Scene returns the loaded scene, or nil before a successful load.
func (o *Orchestrator) Scene() *timeline.Scene { return o.scene }

// Project returns the loaded project, or nil.
func (o *Orchestrator) Project() *project.Project { return o.proj }

// Time returns the current media time.
func (o *Orchestrator) Time() float64 {
	if o.scene == nil {
		return 0
	}
	return o.scene.Time()
}

// Capabilities passes through the detected rendering-tier info.
func (o *Orchestrator) Capabilities() system.Capabilities { return o.caps }

// Extractor exposes the audio feature extractor of the loaded project.
func (o *Orchestrator) Extractor() *audio.Extractor { return o.ex }

func (o *Orchestrator) setState(s State) {
	if s == o.state {
		return
	}
	from := o.state
	o.state = s
	if o.cb.OnStateChange != nil {
		o.cb.OnStateChange(from, s)
	}
}

func (o *Orchestrator) fail(err error) error {
	o.setState(StateError)
	if o.cb.OnError != nil {
		o.cb.OnError(err)
	}
	return err
}

// LoadProject normalizes, validates and installs a project: scene,
// preloaded assets, audio source, visualizer instances and bindings.
// Valid from idle, ready and error. On failure the orchestrator lands
// in the error state and the error is both returned and delivered to
// the error callback.
func (o *Orchestrator) LoadProject(ctx context.Context, p *project.Project) error {
	switch o.state {
	case StateIdle, StateReady, StateError:
	default:
		return fmt.Errorf("engine: cannot load project in state %s", o.state)
	}
	o.setState(StateLoading)

	p.Normalize()
	if err := p.Validate(); err != nil {
		return o.fail(fmt.Errorf("engine: invalid project: %w", err))
	}
	scene, err := p.BuildScene()
	if err != nil {
		return o.fail(fmt.Errorf("engine: build scene: %w", err))
	}

	if err := o.assets.Preload(ctx, assetRefs(scene)); err != nil {
		return o.fail(fmt.Errorf("engine: load assets: %w", err))
	}

	if o.ex != nil {
		o.ex.Close()
	}
	o.ex = audio.NewExtractor(audio.Options{
		BPM:           p.Audio.BPM,
		BeatThreshold: p.Audio.BeatThreshold,
		BeatHoldMS:    p.Audio.BeatHoldMS,
	})
	if p.Audio.Path != "" {
		src, err := audio.NewFileSource(p.Audio.Path)
		if err != nil {
			// Decode failure is not fatal: the synthetic generator takes over.
			log.Printf("[!] Audio %s unavailable, using synthetic features: %v", p.Audio.Path, err)
		} else {
			o.ex.SetSource(src)
		}
	}

	o.proj = p
	o.scene = scene
	o.rebuildVisualizers()
	o.binds = make(map[string][]project.Binding, len(p.Bindings))
	for _, b := range p.Bindings {
		o.binds[b.Layer] = append(o.binds[b.Layer], b)
	}

	o.scene.SetTime(0)
	o.hasTick = false
	o.setState(StateReady)
	return nil
}

// rebuildVisualizers replaces every visualizer instance with a fresh
// one, resetting smoothed state, rotation accumulators and particle
// fields to their initial values.
func (o *Orchestrator) rebuildVisualizers() {
	o.vis = make(map[string]visualizer.Visualizer)
	for _, l := range o.scene.Layers() {
		switch cfg := l.Config.(type) {
		case timeline.VisualizerConfig:
			switch cfg.Kind {
			case "spectrum":
				o.vis[l.ID] = visualizer.NewSpectrum(cfg)
			case "waveform":
				o.vis[l.ID] = visualizer.NewWaveform(cfg)
			case "circular":
				o.vis[l.ID] = visualizer.NewCircular(cfg)
			default:
				// Unknown subtype paints nothing.
			}
		case timeline.ParticleConfig:
			o.vis[l.ID] = visualizer.NewParticles(cfg)
		}
	}
}

func assetRefs(scene *timeline.Scene) []string {
	var refs []string
	for _, l := range scene.Layers() {
		switch cfg := l.Config.(type) {
		case timeline.BackgroundConfig:
			if cfg.Asset != "" {
				refs = append(refs, cfg.Asset)
			}
		case timeline.ImageConfig:
			if cfg.Asset != "" {
				refs = append(refs, cfg.Asset)
			}
		}
	}
	return refs
}

// Play starts interactive playback. Valid from ready and paused.
func (o *Orchestrator) Play() error {
	if o.state != StateReady && o.state != StatePaused {
		return fmt.Errorf("engine: cannot play in state %s", o.state)
	}
	o.hasTick = false
	o.setState(StatePlaying)
	return nil
}

// Pause suspends playback. Valid only while playing.
func (o *Orchestrator) Pause() error {
	if o.state != StatePlaying {
		return fmt.Errorf("engine: cannot pause in state %s", o.state)
	}
	o.setState(StatePaused)
	return nil
}

// Seek moves the media time without changing the play/pause state.
// Beat-detector debounce is reset so beats behind the new position are
// not suppressed. Outside playback the frame is re-rendered in place.
func (o *Orchestrator) Seek(t float64) error {
	switch o.state {
	case StateLoading, StateExporting, StateIdle:
		return fmt.Errorf("engine: cannot seek in state %s", o.state)
	}
	o.scene.SetTime(t)
	o.ex.Reset()
	o.hasTick = false
	if o.state != StatePlaying {
		return o.RenderFrame(o.scene.Time())
	}
	return nil
}

// Tick advances playback by the wall-clock delta since the previous
// tick and renders. Past the project duration the time wraps to zero
// and the audio debounce state rewinds with it. Ticks outside the
// playing state are ignored.
func (o *Orchestrator) Tick(now time.Time) error {
	if o.state != StatePlaying {
		return nil
	}
	if !o.hasTick {
		o.hasTick = true
		o.lastTick = now
		return o.RenderFrame(o.scene.Time())
	}
	dt := now.Sub(o.lastTick).Seconds()
	o.lastTick = now

	t := o.scene.Time() + dt
	if t > o.scene.Duration {
		t = 0
		o.ex.Reset()
	}
	return o.RenderFrame(t)
}

// RenderFrame produces one frame at media time t on the owned surface:
// clear to the project background, advance the scene, pull one audio
// sample, then paint the active layers in z order. For fixed inputs the
// emitted paint sequence is identical across calls.
func (o *Orchestrator) RenderFrame(t float64) error {
	if o.scene == nil {
		return fmt.Errorf("engine: no project loaded")
	}

	bg := parseHex(o.scene.Background, "#000000")
	o.surf.Clear(bg)

	o.scene.SetTime(t)
	t = o.scene.Time()

	sample := o.ex.SampleAt(t)

	for _, l := range o.scene.ActiveLayers(t) {
		o.paintLayer(l, &sample, t)
	}

	if o.cb.OnFrame != nil {
		o.cb.OnFrame(int(math.Round(t*float64(o.scene.FPS))), t)
	}
	if o.cb.OnTimeUpdate != nil {
		o.cb.OnTimeUpdate(t)
	}
	return nil
}

// paintLayer applies opacity, transform and audio bindings, then
// dispatches to the typed paint routine. Failures are logged and the
// layer is omitted; one bad layer never blanks the frame.
func (o *Orchestrator) paintLayer(l *timeline.Layer, sample *audio.Sample, t float64) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[!] Layer %q paint panic: %v", l.ID, r)
		}
	}()

	if l.Opacity <= 0 {
		return
	}

	alpha := l.Opacity
	tr := l.Transform
	rot := tr.Rotation
	sx, sy := tr.ScaleX, tr.ScaleY

	for _, b := range o.binds[l.ID] {
		v := featureValue(sample, b.Feature)
		switch b.Property {
		case "scale":
			f := 1 + v*b.Intensity*0.1
			sx *= f
			sy *= f
		case "opacity":
			alpha = clamp01(alpha * (1 + v*b.Intensity))
		case "rotation":
			rot += v * b.Intensity * 0.1
		}
	}
	if alpha <= 0 {
		return
	}

	o.surf.Push()
	defer o.surf.Pop()
	o.surf.SetAlpha(alpha)

	w, h := o.layerBox(l)
	ax, ay := tr.AnchorX*w, tr.AnchorY*h
	o.surf.Translate(tr.X+ax, tr.Y+ay)
	o.surf.Rotate(rot)
	o.surf.Scale(sx, sy)
	o.surf.Translate(-ax, -ay)

	if err := o.dispatch(l, sample, t); err != nil {
		log.Printf("[!] Layer %q skipped: %v", l.ID, err)
	}
}

// dispatch is the closed type switch over layer configs. Unknown
// configurations are a no-op.
func (o *Orchestrator) dispatch(l *timeline.Layer, sample *audio.Sample, t float64) error {
	switch cfg := l.Config.(type) {
	case timeline.BackgroundConfig:
		return o.paintBackground(cfg)
	case timeline.ShapeConfig:
		return o.paintShape(l, cfg, t)
	case timeline.ImageConfig:
		return o.paintImage(cfg)
	case timeline.TextConfig:
		return o.paintText(l, cfg, t)
	case timeline.VisualizerConfig, timeline.ParticleConfig:
		if v := o.vis[l.ID]; v != nil {
			v.Render(o.surf, sample, t)
		}
		return nil
	}
	return nil
}

// layerBox resolves the local coordinate box the layer paints in; the
// anchor point is expressed in fractions of this box.
func (o *Orchestrator) layerBox(l *timeline.Layer) (float64, float64) {
	switch cfg := l.Config.(type) {
	case timeline.BackgroundConfig:
		return float64(o.scene.Width), float64(o.scene.Height)
	case timeline.ImageConfig:
		return cfg.W, cfg.H
	case timeline.TextConfig:
		return cfg.W, cfg.H
	case timeline.ShapeConfig:
		return shapeBox(cfg)
	case timeline.ParticleConfig:
		return cfg.W, cfg.H
	case timeline.VisualizerConfig:
		return cfg.W, cfg.H
	}
	return 0, 0
}

func featureValue(s *audio.Sample, feature string) float64 {
	switch feature {
	case "bass":
		return s.Bass
	case "mid":
		return s.Mid
	case "treble":
		return s.Treble
	}
	return s.Average
}

// SetExportMode switches between interactive and export rendering.
// Enabling forces the exporting state and rebuilds all visualizer
// instances so exported frames do not depend on preview history;
// disabling rebuilds again and returns to ready.
func (o *Orchestrator) SetExportMode(on bool) error {
	if o.scene == nil {
		return fmt.Errorf("engine: no project loaded")
	}
	if on {
		o.rebuildVisualizers()
		o.ex.Reset()
		o.scene.SetTime(0)
		o.setState(StateExporting)
		return nil
	}
	o.rebuildVisualizers()
	o.ex.Reset()
	o.hasTick = false
	o.setState(StateReady)
	return nil
}

// FrameCount returns the number of frames a full export produces.
func (o *Orchestrator) FrameCount() int {
	if o.scene == nil {
		return 0
	}
	return int(math.Round(o.scene.Duration * float64(o.scene.FPS)))
}

// ExportFrame renders frame n at exactly t = n/fps and returns a
// pixel copy drawn from the shared image pool. The caller returns the
// buffer with system.PutImage once consumed. Valid only in export mode
// and only on surfaces with pixel read-back.
func (o *Orchestrator) ExportFrame(n int) (*image.RGBA, error) {
	if o.state != StateExporting {
		return nil, fmt.Errorf("engine: export frame in state %s", o.state)
	}
	type imager interface{ Image() *image.RGBA }
	src, ok := o.surf.(imager)
	if !ok {
		return nil, fmt.Errorf("engine: surface has no pixel read-back")
	}

	t := float64(n) / float64(o.scene.FPS)
	if err := o.RenderFrame(t); err != nil {
		return nil, err
	}

	frame := src.Image()
	buf := system.GetImage(frame.Rect)
	copy(buf.Pix, frame.Pix)
	return buf, nil
}

// Close releases the audio source and returns to idle.
func (o *Orchestrator) Close() error {
	var err error
	if o.ex != nil {
		err = o.ex.Close()
		o.ex = nil
	}
	o.scene = nil
	o.proj = nil
	o.vis = nil
	o.setState(StateIdle)
	return err
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
