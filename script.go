package digitalrain

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ScriptStep is a single action in a script.
type ScriptStep struct {
	Action    string  `yaml:"action"`
	Label     string  `yaml:"label,omitempty"`
	X         float64 `yaml:"x,omitempty"`
	Y         float64 `yaml:"y,omitempty"`
	FromX     float64 `yaml:"from_x,omitempty"`
	FromY     float64 `yaml:"from_y,omitempty"`
	ToX       float64 `yaml:"to_x,omitempty"`
	ToY       float64 `yaml:"to_y,omitempty"`
	Frames    int     `yaml:"frames,omitempty"`
	Width     int     `yaml:"width,omitempty"`
	Height    int     `yaml:"height,omitempty"`
	Intensity float64 `yaml:"intensity,omitempty"`
	Layer     string  `yaml:"layer,omitempty"`
	Opacity   float64 `yaml:"opacity,omitempty"`
	Seconds   float64 `yaml:"seconds,omitempty"`
}

type scriptFile struct {
	Steps []ScriptStep `yaml:"steps"`
}

// Script sequences injected input, resizes, layer fades, glitches and
// screenshots across ticks. Call Step once per tick before firing the tick
// source.
type Script struct {
	steps     []ScriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a YAML script.
func LoadScript(data []byte) (*Script, error) {
	var f scriptFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("digitalrain: parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("digitalrain: parse script: no steps")
	}
	for i, st := range f.Steps {
		switch st.Action {
		case "move", "click", "drag", "wait", "resize", "glitch", "screenshot":
		case "fade":
			if _, ok := LayerByName(st.Layer); !ok {
				return nil, fmt.Errorf("digitalrain: parse script: step %d: unknown layer %q", i, st.Layer)
			}
		default:
			return nil, fmt.Errorf("digitalrain: parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// LoadScriptFile reads and parses a YAML script from disk.
func LoadScriptFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("digitalrain: read script: %w", err)
	}
	return LoadScript(data)
}

// Len returns the number of steps.
func (r *Script) Len() int { return len(r.steps) }

// Done reports whether every step has executed and all injected input has
// been consumed.
func (r *Script) Done() bool {
	return r.done
}

// Step advances the script by one tick. shoot is called for screenshot
// steps and may be nil.
func (r *Script) Step(e *Engine, shoot func(label string)) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if e.PendingInjections() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		if shoot != nil {
			shoot(st.Label)
		}
	case "move":
		e.InjectMove(st.X, st.Y)
	case "click":
		e.InjectClick(st.X, st.Y)
	case "drag":
		e.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
	case "resize":
		e.Resize(st.Width, st.Height)
	case "fade":
		id, _ := LayerByName(st.Layer)
		e.FadeLayer(id, st.Opacity, time.Duration(st.Seconds*float64(time.Second)))
	case "glitch":
		if e.valid {
			e.glitch.Trigger(st.Intensity)
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && e.PendingInjections() == 0 {
		r.done = true
	}
}
