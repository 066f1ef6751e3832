package progress

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for i, name := range names {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(strings.Repeat("x", 100)), 0o644); err != nil {
			t.Fatal(err)
		}
		mod := time.Date(2024, 1, 1, 0, i, 0, 0, time.UTC)
		os.Chtimes(p, mod, mod)
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.png", "b.JPG", "c.gif", "d.webp", "e.jpeg", "f.png", "notes.txt")
	os.Mkdir(filepath.Join(dir, "sub.png"), 0o755)

	r, err := Scan(dir, 82)
	if err != nil {
		t.Fatal(err)
	}
	if r.Count != 6 || r.Bytes != 600 {
		t.Errorf("count=%d bytes=%d", r.Count, r.Bytes)
	}
	if len(r.Recent) != 5 || r.Recent[0] != "f.png" {
		t.Errorf("recent = %v", r.Recent)
	}
	if r.Complete() || r.Percent() <= 0.07 || r.Percent() >= 0.08 {
		t.Errorf("percent = %v", r.Percent())
	}
}

func TestScanMissingDir(t *testing.T) {
	r, err := Scan(filepath.Join(t.TempDir(), "nope"), 82)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Missing || r.Count != 0 {
		t.Errorf("report = %+v", r)
	}
	if !strings.Contains(Render(r), "not created") {
		t.Error("missing directory not reported")
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name   string
		report Report
		want   string
	}{
		{"complete", Report{Dir: "imgs", Count: 82, Expected: 82}, "complete"},
		{"running", Report{Dir: "imgs", Count: 41, Expected: 82, Running: true}, "is running"},
		{"stalled", Report{Dir: "imgs", Count: 41, Expected: 82}, "not running"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Render(tt.report)
			if !strings.Contains(out, tt.want) {
				t.Errorf("Render missing %q:\n%s", tt.want, out)
			}
			if !strings.Contains(out, "/ 82") {
				t.Errorf("Render missing totals:\n%s", out)
			}
		})
	}
}

func TestHumanBytes(t *testing.T) {
	tests := map[int64]string{
		0:         "0 B",
		1023:      "1023 B",
		1536:      "1.5 KiB",
		5 << 20:   "5.0 MiB",
		3<<30 + 1: "3.0 GiB",
	}
	for n, want := range tests {
		if got := humanBytes(n); got != want {
			t.Errorf("humanBytes(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestCheckUsesLookup(t *testing.T) {
	old := Lookup
	defer func() { Lookup = old }()
	Lookup = func(context.Context) bool { return true }

	r, err := Check(context.Background(), t.TempDir(), 82)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Running {
		t.Error("Running not taken from Lookup")
	}
}

func TestModelQuitsWhenComplete(t *testing.T) {
	m := newModel(context.Background(), "imgs", 2, time.Second)

	next, cmd := m.Update(scanMsg{report: Report{Dir: "imgs", Count: 1, Expected: 2}})
	m = next.(model)
	if m.done || cmd == nil {
		t.Fatal("half-done scan should schedule another poll")
	}

	next, _ = m.Update(scanMsg{report: Report{Dir: "imgs", Count: 2, Expected: 2}})
	m = next.(model)
	if !m.done {
		t.Error("complete scan did not finish the model")
	}
	if !strings.Contains(m.View(), "complete") {
		t.Errorf("view:\n%s", m.View())
	}
}

func TestModelQuitKey(t *testing.T) {
	m := newModel(context.Background(), "imgs", 82, time.Second)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q produced no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}
