// Package termview draws the background wall in a terminal.
package termview

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/memewall"
)

// CellWidth and CellHeight are the pixels one terminal cell stands for.
const (
	CellWidth  = 16
	CellHeight = 32
)

type box struct {
	el     *memewall.Element
	glyph  rune
	fading bool
}

// Renderer implements memewall.Renderer by drawing each element as a box
// of cells. Elements listed in Fail are reported as broken images.
type Renderer struct {
	screen tcell.Screen
	boxes  []*box
	Fail   map[string]bool

	shown, removed int
}

// New creates a renderer drawing to screen.
func New(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Viewport returns the wall viewport matching the screen size.
func Viewport(screen tcell.Screen) memewall.Viewport {
	w, h := screen.Size()
	return memewall.Viewport{Width: float64(w * CellWidth), Height: float64(h * CellHeight)}
}

var glyphs = []rune("ABCDEFGHJKLMNPQRSTUVWXYZ")

func (r *Renderer) Show(el *memewall.Element, onError func(error)) {
	if r.Fail[el.Image] {
		onError(fmt.Errorf("%s: no such image", el.Image))
		return
	}
	r.shown++
	r.boxes = append(r.boxes, &box{el: el, glyph: glyphs[r.shown%len(glyphs)]})
}

func (r *Renderer) Hide(el *memewall.Element, _ time.Duration) {
	if b := r.find(el); b != nil {
		b.fading = true
	}
}

// Move needs no bookkeeping; Draw reads positions from the element.
func (r *Renderer) Move(*memewall.Element) {}

func (r *Renderer) Remove(el *memewall.Element) {
	for i, b := range r.boxes {
		if b.el == el {
			r.boxes = append(r.boxes[:i], r.boxes[i+1:]...)
			r.removed++
			return
		}
	}
}

func (r *Renderer) find(el *memewall.Element) *box {
	for _, b := range r.boxes {
		if b.el == el {
			return b
		}
	}
	return nil
}

// Len returns the number of boxes on screen.
func (r *Renderer) Len() int {
	return len(r.boxes)
}

var (
	zoneStyle   = tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
	boxStyle    = tcell.StyleDefault.Foreground(tcell.ColorGold)
	fadingStyle = tcell.StyleDefault.Foreground(tcell.ColorGray).Dim(true)
	statusStyle = tcell.StyleDefault.Background(tcell.ColorDarkViolet).Foreground(tcell.ColorWhite)
)

// Draw repaints the whole screen: the content zone, every element and a
// status line.
func (r *Renderer) Draw(w *memewall.Wall) {
	s := r.screen
	s.Clear()
	cols, rows := s.Size()

	zone := memewall.ContentZone(w.Viewport(), w.Config().Zone)
	x0, y0, x1, y1 := cells(zone)
	for y := y0; y < y1 && y < rows-1; y++ {
		for x := x0; x < x1 && x < cols; x++ {
			s.SetContent(x, y, '·', nil, zoneStyle)
		}
	}

	for _, b := range r.boxes {
		style, fill := boxStyle, '█'
		if b.fading {
			style, fill = fadingStyle, '░'
		}
		x0, y0, x1, y1 := cells(b.el.Rect())
		for y := y0; y < max(y1, y0+1) && y < rows-1; y++ {
			for x := x0; x < max(x1, x0+1) && x < cols; x++ {
				s.SetContent(x, y, fill, nil, style)
			}
		}
		if y0 < rows-1 && x0 < cols {
			s.SetContent(x0, y0, b.glyph, nil, style.Reverse(true))
		}
	}

	st := w.Stats()
	status := fmt.Sprintf(" live %d  fading %d  pending %d  tasks %d  shown %d  removed %d   space: click  q: quit ",
		st.Live, st.Fading, st.Pending, st.Tasks, r.shown, r.removed)
	for x := 0; x < cols; x++ {
		ch := ' '
		if x < len(status) {
			ch = rune(status[x])
		}
		s.SetContent(x, rows-1, ch, nil, statusStyle)
	}
}

func cells(rc memewall.Rect) (x0, y0, x1, y1 int) {
	return int(rc.X / CellWidth), int(rc.Y / CellHeight),
		int((rc.X + rc.Width) / CellWidth), int((rc.Y + rc.Height) / CellHeight)
}

// Run drives the wall on screen, one Update and Draw per frame. It returns
// when the user presses q, Escape or Ctrl+C, or the screen is finalized.
func Run(screen tcell.Screen, w *memewall.Wall, r *Renderer, frame time.Duration) error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := screen.PollEvent()
			select {
			case events <- ev:
			case <-quit:
				return
			}
			if ev == nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	w.Start()
	defer w.Stop()
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
					return nil
				case ev.Rune() == ' ':
					w.Click()
				}
			case *tcell.EventResize:
				screen.Sync()
				w.Resize(Viewport(screen))
			case nil:
				return nil
			}
		case <-ticker.C:
			w.Update()
			r.Draw(w)
			screen.Show()
		}
	}
}
