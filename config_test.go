package memewall

import (
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(EnvImageDir, "")
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Wall.MinElements != 4 || cfg.Wall.MaxElements != 6 {
		t.Errorf("bounds = %d..%d, want 4..6", cfg.Wall.MinElements, cfg.Wall.MaxElements)
	}
	if cfg.Pool.Count != 82 {
		t.Errorf("pool count = %d, want 82", cfg.Pool.Count)
	}
}

func TestLoadConfigOverlaysFile(t *testing.T) {
	t.Setenv(EnvImageDir, "")
	path := filepath.Join(t.TempDir(), "memewall.yaml")
	data := `
pool:
  dir: /srv/nfts
  count: 12
wall:
  min_elements: 2
  target_elements: 3
  max_elements: 4
  fade_out: 5s
  lifetime:
    min: 10s
    max: 12s
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Pool.Dir != "/srv/nfts" || cfg.Pool.Count != 12 {
		t.Errorf("pool = %+v", cfg.Pool)
	}
	if cfg.Wall.MaxElements != 4 || cfg.Wall.FadeOut != 5*time.Second {
		t.Errorf("wall max=%d fade=%v", cfg.Wall.MaxElements, cfg.Wall.FadeOut)
	}
	if cfg.Wall.Lifetime.Max != 12*time.Second {
		t.Errorf("lifetime = %+v", cfg.Wall.Lifetime)
	}
	// Untouched fields keep their defaults.
	if cfg.Wall.MinVisible != 25*time.Second || cfg.Pool.Prefix != "image" {
		t.Errorf("defaults lost: min_visible=%v prefix=%q", cfg.Wall.MinVisible, cfg.Pool.Prefix)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv(EnvImageDir, "/tmp/elsewhere")
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Pool.Dir != "/tmp/elsewhere" {
		t.Errorf("Pool.Dir = %q, want env override", cfg.Pool.Dir)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	t.Setenv(EnvImageDir, "")
	dir := t.TempDir()

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want ErrNotExist", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("wall: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Error("malformed yaml accepted")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("wall:\n  min_elements: 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(invalid); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("min > max error = %v, want ErrInvalidConfig", err)
	}
}

func TestWallConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*WallConfig)
		ok     bool
	}{
		{"defaults", func(*WallConfig) {}, true},
		{"negative min", func(c *WallConfig) { c.MinElements = -1 }, false},
		{"zero max", func(c *WallConfig) { c.MinElements, c.TargetElements, c.MaxElements = 0, 0, 0 }, false},
		{"target above max", func(c *WallConfig) { c.TargetElements = 7 }, false},
		{"inverted lifetime", func(c *WallConfig) { c.Lifetime = DurationRange{Min: time.Minute, Max: time.Second} }, false},
		{"negative fade", func(c *WallConfig) { c.FadeOut = -time.Second }, false},
		{"chance above one", func(c *WallConfig) { c.BonusChance = 1.5 }, false},
		{"no size breakpoints", func(c *WallConfig) { c.Sizes.Breakpoints = nil }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultWallConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestDurationRangeRandom(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 5))
	r := DurationRange{Min: time.Second, Max: 2 * time.Second}
	for range 200 {
		d := r.Random(rng)
		if d < r.Min || d > r.Max {
			t.Fatalf("Random() = %v outside %v..%v", d, r.Min, r.Max)
		}
	}
	if got := (DurationRange{Min: time.Second}).Random(rng); got != time.Second {
		t.Errorf("degenerate range = %v, want 1s", got)
	}
}
