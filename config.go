package memewall

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// EnvImageDir overrides Pool.Dir when set.
const EnvImageDir = "MEMEWALL_IMAGES"

// DurationRange is a min/max pair of durations.
type DurationRange struct {
	Min time.Duration `yaml:"min"`
	Max time.Duration `yaml:"max"`
}

// Random returns a uniform duration in [Min, Max].
func (r DurationRange) Random(rng *rand.Rand) time.Duration {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + time.Duration(rng.Int64N(int64(r.Max-r.Min)+1))
}

// WallConfig tunes the background churn. The probabilities and intervals
// are cosmetic; the bounds and lifetimes are what the wall enforces.
type WallConfig struct {
	MinElements      int `yaml:"min_elements"`
	TargetElements   int `yaml:"target_elements"`
	MaxElements      int `yaml:"max_elements"`
	HandoffThreshold int `yaml:"handoff_threshold"`

	MinVisible  time.Duration `yaml:"min_visible"`
	FadeIn      time.Duration `yaml:"fade_in"`
	FadeOut     time.Duration `yaml:"fade_out"`
	RetireSlack time.Duration `yaml:"retire_slack"`
	Lifetime    DurationRange `yaml:"lifetime"`

	Stagger       time.Duration `yaml:"stagger"`
	DeferDelay    time.Duration `yaml:"defer_delay"`
	HandoffDelay  time.Duration `yaml:"handoff_delay"`
	TurnoverDelay time.Duration `yaml:"turnover_delay"`

	MaintainInterval time.Duration `yaml:"maintain_interval"`
	ResolveInterval  time.Duration `yaml:"resolve_interval"`
	ResizeDebounce   time.Duration `yaml:"resize_debounce"`
	RebuildWaves     int           `yaml:"rebuild_waves"`
	WaveSpacing      time.Duration `yaml:"wave_spacing"`

	BonusChance    float64 `yaml:"bonus_chance"`
	TurnoverChance float64 `yaml:"turnover_chance"`

	PlacementAttempts int        `yaml:"placement_attempts"`
	EdgeMargin        float64    `yaml:"edge_margin"`
	CollisionBuffer   float64    `yaml:"collision_buffer"`
	Zone              ZonePolicy `yaml:"zone"`
	Sizes             SizeTable  `yaml:"sizes"`
}

// PoolConfig describes the generated image filenames and where they live.
type PoolConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
	Ext    string `yaml:"ext"`
	Count  int    `yaml:"count"`
}

// LinkConfig is one circular hero button.
type LinkConfig struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
	// Hover names a GIF played while the pointer is over the button.
	Hover string `yaml:"hover"`
}

// HeroConfig is the centered content block.
type HeroConfig struct {
	Title   string       `yaml:"title"`
	Tagline string       `yaml:"tagline"`
	Links   []LinkConfig `yaml:"links"`
}

// WindowConfig sizes the desktop window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// PreloadConfig lists the animation assets warmed before buttons go live.
type PreloadConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	Dir     string        `yaml:"dir"`
}

// Config is the full landing page configuration.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Hero    HeroConfig    `yaml:"hero"`
	Pool    PoolConfig    `yaml:"pool"`
	Wall    WallConfig    `yaml:"wall"`
	Preload PreloadConfig `yaml:"preload"`
	Overlay DurationRange `yaml:"overlay"`
	Debug   bool          `yaml:"debug"`
	Sound   bool          `yaml:"sound"`
}

// DefaultWallConfig returns the tuning the landing page ships with.
func DefaultWallConfig() WallConfig {
	return WallConfig{
		MinElements:      4,
		TargetElements:   5,
		MaxElements:      6,
		HandoffThreshold: 5,

		MinVisible:  25 * time.Second,
		FadeIn:      2 * time.Second,
		FadeOut:     15 * time.Second,
		RetireSlack: time.Second,
		Lifetime:    DurationRange{Min: 20 * time.Second, Max: 45 * time.Second},

		Stagger:       800 * time.Millisecond,
		DeferDelay:    10 * time.Second,
		HandoffDelay:  2 * time.Second,
		TurnoverDelay: 3 * time.Second,

		MaintainInterval: 3 * time.Second,
		ResolveInterval:  2 * time.Second,
		ResizeDebounce:   300 * time.Millisecond,
		RebuildWaves:     3,
		WaveSpacing:      1500 * time.Millisecond,

		BonusChance:    0.3,
		TurnoverChance: 0.4,

		PlacementAttempts: 30,
		EdgeMargin:        20,
		CollisionBuffer:   30,
		Zone:              DefaultZonePolicy(),
		Sizes:             DefaultSizeTable(),
	}
}

// DefaultConfig returns a complete configuration with an 82-image pool.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{Title: "memewall", Width: 1280, Height: 800},
		Hero: HeroConfig{
			Title:   "MEMEWALL",
			Tagline: "82 hand-picked degenerates, one wall.",
			Links: []LinkConfig{
				{Label: "X", URL: "https://x.com/memewall", Hover: "x.gif"},
				{Label: "TG", URL: "https://t.me/memewall", Hover: "tg.gif"},
				{Label: "ME", URL: "https://magiceden.io/marketplace/memewall", Hover: "me.gif"},
			},
		},
		Pool:    PoolConfig{Dir: "nft_images", Prefix: "image", Ext: ".png", Count: 82},
		Wall:    DefaultWallConfig(),
		Preload: PreloadConfig{Timeout: 3 * time.Second, Dir: "assets"},
		Overlay: DurationRange{Min: 1000 * time.Millisecond, Max: 1600 * time.Millisecond},
	}
}

// LoadConfig reads a YAML file over DefaultConfig. An empty path returns the
// defaults. The MEMEWALL_IMAGES environment variable overrides Pool.Dir.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if dir := os.Getenv(EnvImageDir); dir != "" {
		cfg.Pool.Dir = dir
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the wall cannot honor.
func (c Config) Validate() error {
	if c.Pool.Count < 0 {
		return fmt.Errorf("%w: pool.count %d is negative", ErrInvalidConfig, c.Pool.Count)
	}
	return c.Wall.Validate()
}

// Validate checks the churn bounds and timing.
func (w WallConfig) Validate() error {
	switch {
	case w.MinElements < 0:
		return fmt.Errorf("%w: min_elements %d is negative", ErrInvalidConfig, w.MinElements)
	case w.MaxElements <= 0:
		return fmt.Errorf("%w: max_elements must be positive", ErrInvalidConfig)
	case w.MinElements > w.TargetElements || w.TargetElements > w.MaxElements:
		return fmt.Errorf("%w: need min <= target <= max, got %d/%d/%d",
			ErrInvalidConfig, w.MinElements, w.TargetElements, w.MaxElements)
	case w.Lifetime.Min > w.Lifetime.Max:
		return fmt.Errorf("%w: lifetime min %v exceeds max %v", ErrInvalidConfig, w.Lifetime.Min, w.Lifetime.Max)
	case w.FadeOut < 0 || w.FadeIn < 0 || w.MinVisible < 0:
		return fmt.Errorf("%w: durations must not be negative", ErrInvalidConfig)
	case w.BonusChance < 0 || w.BonusChance > 1 || w.TurnoverChance < 0 || w.TurnoverChance > 1:
		return fmt.Errorf("%w: chances must be within [0, 1]", ErrInvalidConfig)
	case len(w.Sizes.Breakpoints) == 0:
		return fmt.Errorf("%w: sizes need at least one breakpoint", ErrInvalidConfig)
	}
	return nil
}
