package memewall

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// NewStatsWidget creates a node that shows FPS, TPS and the lines returned
// by extra, refreshed about twice a second. extra may be nil.
func NewStatsWidget(extra func() string) *Node {
	img := ebiten.NewImage(220, 64)

	node := NewSprite("stats_widget", img)
	node.ZIndex = 1 << 20

	var since float64
	node.OnUpdate = func(dt float64) {
		since += dt
		if since < 0.5 {
			return
		}
		since = 0

		img.Clear()
		img.Fill(color.RGBA{0, 0, 0, 128})
		msg := fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
		if extra != nil {
			msg += "\n" + extra()
		}
		ebitenutil.DebugPrint(img, msg)
	}
	return node
}
