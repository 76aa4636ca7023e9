package digitalrain

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "steps: []", "no steps"},
		{"unknown action", "steps:\n  - action: jump\n", `unknown action "jump"`},
		{"bad yaml", "steps: [", "parse script"},
		{"unknown layer", "steps:\n  - action: fade\n    layer: sky\n", `unknown layer "sky"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScript([]byte(tt.src))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadScript() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestLoadScriptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.yaml")
	src := "steps:\n  - action: move\n    x: 5\n    y: 6\n  - action: wait\n    frames: 2\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadScriptFile(path)
	if err != nil {
		t.Fatalf("LoadScriptFile: %v", err)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	if _, err := LoadScriptFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file: want error")
	}
}

const sequenceScript = `
steps:
  - action: click
    x: 100
    y: 100
  - action: wait
    frames: 3
  - action: screenshot
    label: after-click
  - action: glitch
    intensity: 20
  - action: resize
    width: 400
    height: 300
  - action: move
    x: 10
    y: 10
`

func TestScriptSequence(t *testing.T) {
	s, err := LoadScript([]byte(sequenceScript))
	if err != nil {
		t.Fatal(err)
	}
	e, _, _, fire := newTestEngine(t, testConfig())
	e.Glitch().Chance = 0

	var shots []string
	var shotTick uint64
	shoot := func(label string) {
		shots = append(shots, label)
		shotTick = e.Stats().Tick
	}
	step := func() {
		s.Step(e, shoot)
		fire(1)
	}

	// Click: two ticks for the move and the click.
	step()
	step()
	if len(e.Interaction().Explosions()) != 1 {
		t.Fatal("scripted click did not land")
	}
	// Wait 3 frames, then the screenshot.
	for range 4 {
		step()
	}
	if len(shots) != 1 || shots[0] != "after-click" {
		t.Fatalf("shots = %v", shots)
	}
	if shotTick != 5 {
		t.Errorf("screenshot after %d ticks, want 5", shotTick)
	}

	s.Step(e, shoot)
	if e.Glitch().State() != GlitchActive {
		t.Error("glitch step did not trigger")
	}
	fire(1)

	step()
	if w, h := e.Size(); w != 400 || h != 300 {
		t.Errorf("size = %d,%d, want 400,300", w, h)
	}

	step()
	if s.Done() {
		t.Error("done while the move is still queued")
	}
	step()
	if !s.Done() {
		t.Error("script not done after draining")
	}
	n := e.Stats().Tick
	step()
	if len(shots) != 1 || e.Stats().Tick != n+1 {
		t.Error("finished script kept acting")
	}
}

func TestScriptWaitsForDrag(t *testing.T) {
	s, err := LoadScript([]byte("steps:\n  - action: drag\n    to_x: 80\n    frames: 4\n  - action: screenshot\n"))
	if err != nil {
		t.Fatal(err)
	}
	e, _, _, fire := newTestEngine(t, testConfig())
	shots := 0
	for range 4 {
		s.Step(e, func(string) { shots++ })
		fire(1)
	}
	if shots != 0 {
		t.Error("screenshot taken before the drag finished")
	}
	s.Step(e, func(string) { shots++ })
	if shots != 1 {
		t.Errorf("shots = %d, want 1", shots)
	}
	if len(e.Interaction().Trail()) != 4 {
		t.Errorf("trail = %d, want 4", len(e.Interaction().Trail()))
	}
}

func TestScriptNilShoot(t *testing.T) {
	s, err := LoadScript([]byte("steps:\n  - action: screenshot\n"))
	if err != nil {
		t.Fatal(err)
	}
	e, _, _, _ := newTestEngine(t, testConfig())
	s.Step(e, nil)
	if !s.Done() {
		t.Error("script not done")
	}
}

func TestScriptFadeLayer(t *testing.T) {
	s, err := LoadScript([]byte("steps:\n  - action: fade\n    layer: waves\n    opacity: 0.25\n"))
	if err != nil {
		t.Fatal(err)
	}
	e, _, _, fire := newTestEngine(t, testConfig())
	s.Step(e, nil)
	if got := e.Compositor().Spec(LayerWaves).Opacity; got != 0.25 {
		t.Errorf("opacity = %v, want 0.25", got)
	}
	fire(1)
	if !s.Done() {
		t.Error("script not done")
	}
}
