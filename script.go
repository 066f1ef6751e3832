package memewall

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrEmptyScript is returned for a script with no steps.
var ErrEmptyScript = errors.New("script has no steps")

// ScriptStep is one scripted action.
type ScriptStep struct {
	Action string  `yaml:"action"` // click, wait, screenshot, resize
	Label  string  `yaml:"label,omitempty"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	Width  int     `yaml:"width,omitempty"`
	Height int     `yaml:"height,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
}

// ScriptRunner plays injected clicks, waits, resizes and screenshots across
// frames. Attach it with Scene.SetScript.
type ScriptRunner struct {
	steps     []ScriptStep
	cursor    int
	waitCount int
	done      bool

	// OnResize handles resize steps. Without it they are skipped.
	OnResize func(width, height int)
}

// LoadScript parses a YAML script of the form
//
//	steps:
//	  - action: wait
//	    frames: 120
//	  - action: click
//	    x: 640
//	    y: 400
//	  - action: screenshot
//	    label: after-click
func LoadScript(data []byte) (*ScriptRunner, error) {
	var script struct {
		Steps []ScriptStep `yaml:"steps"`
	}
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse script: %w", ErrEmptyScript)
	}
	return &ScriptRunner{steps: script.Steps}, nil
}

// SetScript attaches a runner; it advances once per Step before input.
func (s *Scene) SetScript(runner *ScriptRunner) {
	s.runner = runner
}

// Done reports whether every step has run.
func (r *ScriptRunner) Done() bool {
	return r.done
}

func (r *ScriptRunner) step(s *Scene) {
	if r.done {
		return
	}
	if len(s.injectQueue) > 0 {
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
		s.Screenshot(fmt.Sprintf("step%02d-%s", r.cursor, st.Label))
	case "click":
		s.InjectClick(st.X, st.Y)
	case "resize":
		if r.OnResize != nil && st.Width > 0 && st.Height > 0 {
			r.OnResize(st.Width, st.Height)
		}
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}
