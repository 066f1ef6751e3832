package memewall

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io/fs"
	"testing"
	"testing/fstest"
	"time"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// encodeGIF builds a 4x4 GIF whose frame i paints pixel (i, 0) opaque.
func encodeGIF(t *testing.T, delays []int, disposal byte) []byte {
	t.Helper()
	pal := color.Palette{color.Transparent, color.RGBA{255, 0, 0, 255}}
	g := &gif.GIF{Config: image.Config{Width: 4, Height: 4, ColorModel: pal}}
	for i, d := range delays {
		frame := image.NewPaletted(image.Rect(i, 0, i+1, 1), pal)
		frame.SetColorIndex(i, 0, 1)
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, d)
		g.Disposal = append(g.Disposal, disposal)
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestImageSourceDecodeCaches(t *testing.T) {
	fsys := fstest.MapFS{
		"image00001.png": {Data: encodePNG(t, 8, 6)},
		"broken.png":     {Data: []byte("nope")},
	}
	src := NewImageSource(fsys)

	img, err := src.Decode("image00001.png")
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Errorf("bounds = %v", b)
	}
	if !src.Cached("image00001.png") {
		t.Error("decoded image not cached")
	}

	// Cached decode survives the file disappearing.
	delete(fsys, "image00001.png")
	if _, err := src.Decode("image00001.png"); err != nil {
		t.Errorf("cached decode failed: %v", err)
	}

	if _, err := src.Decode("missing.png"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file error = %v, want fs.ErrNotExist", err)
	}
	if _, err := src.Decode("broken.png"); err == nil {
		t.Error("expected decode error")
	}
}

func TestDecodeGIFFramesComposes(t *testing.T) {
	frames, delays, err := decodeGIFFrames(bytes.NewReader(encodeGIF(t, []int{10, 0, 25}, gif.DisposalNone)))
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 3 {
		t.Fatalf("frames = %d, want 3", len(frames))
	}
	want := []time.Duration{100 * time.Millisecond, defaultFrameDelay, 250 * time.Millisecond}
	for i, d := range delays {
		if d != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, d, want[i])
		}
	}
	last := frames[2]
	for x := range 3 {
		if _, _, _, a := last.At(x, 0).RGBA(); a == 0 {
			t.Errorf("pixel %d not kept under DisposalNone", x)
		}
	}
}

func TestDecodeGIFFramesDisposeBackground(t *testing.T) {
	frames, _, err := decodeGIFFrames(bytes.NewReader(encodeGIF(t, []int{5, 5}, gif.DisposalBackground)))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, a := frames[1].At(0, 0).RGBA(); a != 0 {
		t.Error("first frame's pixel survived DisposalBackground")
	}
	if _, _, _, a := frames[1].At(1, 0).RGBA(); a == 0 {
		t.Error("second frame's pixel missing")
	}
}

func TestFrameIndexLoops(t *testing.T) {
	delays := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 100 * time.Millisecond}
	total := 400 * time.Millisecond
	tests := []struct {
		elapsed time.Duration
		want    int
	}{
		{0, 0},
		{99 * time.Millisecond, 0},
		{100 * time.Millisecond, 1},
		{299 * time.Millisecond, 1},
		{300 * time.Millisecond, 2},
		{400 * time.Millisecond, 0},
		{1150 * time.Millisecond, 2},
	}
	for _, tt := range tests {
		if got := frameIndex(delays, total, tt.elapsed); got != tt.want {
			t.Errorf("frameIndex(%v) = %d, want %d", tt.elapsed, got, tt.want)
		}
	}
	if got := frameIndex(nil, 0, time.Second); got != 0 {
		t.Errorf("empty animation index = %d", got)
	}
}

func TestLoadAnimation(t *testing.T) {
	src := NewImageSource(fstest.MapFS{"x.gif": {Data: encodeGIF(t, []int{10, 10}, gif.DisposalNone)}})
	anim, err := src.LoadAnimation("x.gif")
	if err != nil {
		t.Fatal(err)
	}
	if anim.Len() != 2 || anim.Duration() != 200*time.Millisecond {
		t.Errorf("animation = %d frames, %v", anim.Len(), anim.Duration())
	}
	if anim.FrameAt(150*time.Millisecond) != anim.Frames[1] {
		t.Error("FrameAt picked the wrong frame")
	}
	again, _ := src.LoadAnimation("x.gif")
	if again != anim {
		t.Error("animation not cached")
	}
}
