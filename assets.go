package memewall

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	_ "golang.org/x/image/webp"
)

// ImageLoader resolves a pool filename to a GPU image.
type ImageLoader interface {
	Image(name string) (*ebiten.Image, error)
}

// ImageSource loads images from a filesystem and caches them at three
// levels: raw bytes, decoded pixels and GPU images. PNG, JPEG, GIF and WebP
// are recognized. It is safe for concurrent use.
type ImageSource struct {
	fsys fs.FS

	mu      sync.Mutex
	raw     map[string][]byte
	decoded map[string]image.Image
	images  map[string]*ebiten.Image
	anims   map[string]*Animation
}

// NewImageSource creates a source reading from fsys.
func NewImageSource(fsys fs.FS) *ImageSource {
	return &ImageSource{
		fsys:    fsys,
		raw:     make(map[string][]byte),
		decoded: make(map[string]image.Image),
		images:  make(map[string]*ebiten.Image),
		anims:   make(map[string]*Animation),
	}
}

// ReadRaw returns the file's bytes, reading it at most once.
func (s *ImageSource) ReadRaw(name string) ([]byte, error) {
	s.mu.Lock()
	data, ok := s.raw[name]
	s.mu.Unlock()
	if ok {
		return data, nil
	}
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	s.mu.Lock()
	s.raw[name] = data
	s.mu.Unlock()
	return data, nil
}

// Decode returns the decoded image, decoding it at most once.
func (s *ImageSource) Decode(name string) (image.Image, error) {
	s.mu.Lock()
	img, ok := s.decoded[name]
	s.mu.Unlock()
	if ok {
		return img, nil
	}
	data, err := s.ReadRaw(name)
	if err != nil {
		return nil, err
	}
	img, _, err = image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	s.mu.Lock()
	s.decoded[name] = img
	s.mu.Unlock()
	return img, nil
}

// Image returns the GPU image for name.
func (s *ImageSource) Image(name string) (*ebiten.Image, error) {
	s.mu.Lock()
	img, ok := s.images[name]
	s.mu.Unlock()
	if ok {
		return img, nil
	}
	src, err := s.Decode(name)
	if err != nil {
		return nil, err
	}
	img = ebiten.NewImageFromImage(src)
	s.mu.Lock()
	s.images[name] = img
	s.mu.Unlock()
	return img, nil
}

// Cached reports whether name has been decoded.
func (s *ImageSource) Cached(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.decoded[name]
	return ok
}

// Animation is a decoded GIF: full-canvas frames and their delays.
type Animation struct {
	Frames []*ebiten.Image
	Delays []time.Duration
	total  time.Duration
}

// Len returns the number of frames.
func (a *Animation) Len() int {
	return len(a.Frames)
}

// Duration returns one loop's length.
func (a *Animation) Duration() time.Duration {
	return a.total
}

// FrameAt returns the frame showing after elapsed time, looping forever.
func (a *Animation) FrameAt(elapsed time.Duration) *ebiten.Image {
	if len(a.Frames) == 0 {
		return nil
	}
	return a.Frames[frameIndex(a.Delays, a.total, elapsed)]
}

func frameIndex(delays []time.Duration, total, elapsed time.Duration) int {
	if total <= 0 || len(delays) == 0 {
		return 0
	}
	t := elapsed % total
	if t < 0 {
		t += total
	}
	for i, d := range delays {
		if t < d {
			return i
		}
		t -= d
	}
	return len(delays) - 1
}

// GIF delays are in hundredths of a second. Delays of 0 or 1 play at
// defaultFrameDelay, the way browsers treat them.
const (
	minFrameDelay     = 20 * time.Millisecond
	defaultFrameDelay = 100 * time.Millisecond
)

var errNoFrames = errors.New("gif has no frames")

// LoadAnimation decodes every frame of a GIF onto its logical screen.
func (s *ImageSource) LoadAnimation(name string) (*Animation, error) {
	s.mu.Lock()
	anim, ok := s.anims[name]
	s.mu.Unlock()
	if ok {
		return anim, nil
	}
	data, err := s.ReadRaw(name)
	if err != nil {
		return nil, err
	}
	frames, delays, err := decodeGIFFrames(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	anim = &Animation{Delays: delays}
	for i, f := range frames {
		anim.Frames = append(anim.Frames, ebiten.NewImageFromImage(f))
		anim.total += delays[i]
	}
	s.mu.Lock()
	s.anims[name] = anim
	s.mu.Unlock()
	return anim, nil
}

// decodeGIFFrames composes each frame over the previous ones, honoring the
// disposal methods, and returns independent full-size snapshots.
func decodeGIFFrames(r io.Reader) ([]*image.RGBA, []time.Duration, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, nil, err
	}
	if len(g.Image) == 0 {
		return nil, nil, errNoFrames
	}
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}
	canvas := image.NewRGBA(bounds)

	frames := make([]*image.RGBA, 0, len(g.Image))
	delays := make([]time.Duration, 0, len(g.Image))
	for i, frame := range g.Image {
		var saved *image.RGBA
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			saved = image.NewRGBA(bounds)
			draw.Draw(saved, bounds, canvas, bounds.Min, draw.Src)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		snap := image.NewRGBA(bounds)
		draw.Draw(snap, bounds, canvas, bounds.Min, draw.Src)
		frames = append(frames, snap)

		d := defaultFrameDelay
		if i < len(g.Delay) && g.Delay[i] > 1 {
			d = time.Duration(g.Delay[i]) * 10 * time.Millisecond
		}
		delays = append(delays, max(d, minFrameDelay))

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = saved
		}
	}
	return frames, delays, nil
}
