package memewall

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Snapshots saves drawn frames of the page as PNG files. A capture is
// queued by label and written after the next Draw as
// <stamp>_<seq>_<label>[_<caption>].png, so one run's files sort in the
// order they were asked for.
type Snapshots struct {
	Dir string
	// Caption describes the page when a capture is queued. The landing page
	// sets it to the wall counts.
	Caption func() string
	Log     io.Writer

	now   func() time.Time
	seq   int
	queue []snapshot
}

type snapshot struct {
	label   string
	caption string
}

// NewSnapshots writes captures into dir, creating it on first use.
func NewSnapshots(dir string) *Snapshots {
	return &Snapshots{Dir: dir, Log: os.Stderr, now: time.Now}
}

// Queue asks for a capture of the next frame.
func (c *Snapshots) Queue(label string) {
	sn := snapshot{label: label}
	if c.Caption != nil {
		sn.caption = c.Caption()
	}
	c.queue = append(c.queue, sn)
}

// Pending returns the number of captures waiting for a frame.
func (c *Snapshots) Pending() int {
	return len(c.queue)
}

// Sink returns an EventSink that queues a capture for every event of the
// listed types, labeled with the event and image, and forwards all events
// to next (which may be nil).
func (c *Snapshots) Sink(next EventSink, types ...WallEventType) EventSink {
	return &captureSink{snaps: c, next: next, types: types}
}

type captureSink struct {
	snaps *Snapshots
	next  EventSink
	types []WallEventType
}

func (s *captureSink) EmitWallEvent(ev WallEvent) {
	if slices.Contains(s.types, ev.Type) {
		label := ev.Type.String()
		if ev.Image != "" {
			label += "-" + strings.TrimSuffix(ev.Image, path.Ext(ev.Image))
		}
		s.snaps.Queue(label)
	}
	if s.next != nil {
		s.next.EmitWallEvent(ev)
	}
}

func (c *Snapshots) flush(screen *ebiten.Image) {
	if len(c.queue) == 0 {
		return
	}
	b := screen.Bounds()
	pixels := make([]byte, 4*b.Dx()*b.Dy())
	screen.ReadPixels(pixels)
	img := toNRGBA(pixels, b.Dx(), b.Dy())
	for _, file := range c.files() {
		if err := savePNG(file, img); err != nil {
			_, _ = fmt.Fprintf(c.Log, "[memewall] snapshot: %v\n", err)
		}
	}
}

// files names the queued captures and empties the queue.
func (c *Snapshots) files() []string {
	stamp := c.now().Format("20060102_150405")
	out := make([]string, 0, len(c.queue))
	for _, sn := range c.queue {
		c.seq++
		name := fmt.Sprintf("%s_%03d_%s", stamp, c.seq, fileSafe(sn.label))
		if sn.caption != "" {
			name += "_" + fileSafe(sn.caption)
		}
		out = append(out, filepath.Join(c.Dir, name+".png"))
	}
	c.queue = c.queue[:0]
	return out
}

// fileSafe maps anything but letters, digits, '-' and '.' to '_'.
func fileSafe(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, s)
}

// toNRGBA undoes ebiten's premultiplied alpha.
func toNRGBA(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, pixels)
	for i := 0; i+3 < len(img.Pix); i += 4 {
		a := int(img.Pix[i+3])
		if a == 0 || a == 255 {
			continue
		}
		for j := i; j < i+3; j++ {
			img.Pix[j] = uint8(min(int(img.Pix[j])*255/a, 255))
		}
	}
	return img
}

func savePNG(file string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return err
	}
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", file, err)
	}
	return f.Close()
}
