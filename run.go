package memewall

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window for Run.
type RunConfig struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
	ShowFPS   bool

	// OnLayout is called whenever the window's logical size changes,
	// including once before the first frame.
	OnLayout func(width, height int)
}

// game adapts a Scene to ebiten.Game. The logical screen always matches the
// window so the layout follows resizes.
type game struct {
	scene    *Scene
	onLayout func(width, height int)
	w, h     int
}

func (g *game) Update() error {
	return g.scene.Update()
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.w || outsideHeight != g.h {
		g.w, g.h = outsideWidth, outsideHeight
		if g.onLayout != nil {
			g.onLayout(outsideWidth, outsideHeight)
		}
	}
	return outsideWidth, outsideHeight
}

// Run opens a window and drives the scene until the update function
// returns an error or the window closes.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 800
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if cfg.ShowFPS {
		scene.Root().AddChild(NewStatsWidget(nil))
	}
	return ebiten.RunGame(&game{scene: scene, onLayout: cfg.OnLayout})
}
