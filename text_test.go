package memewall

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestDefaultFontFaceMeasure(t *testing.T) {
	f := DefaultFontFace(24)
	if f.Size() != 24 {
		t.Errorf("Size = %v, want 24", f.Size())
	}
	w1, h1 := f.Measure("MEME")
	w2, _ := f.Measure("MEMEWALL")
	if w1 <= 0 || h1 <= 0 {
		t.Fatalf("Measure = %v x %v", w1, h1)
	}
	if w2 <= w1 {
		t.Errorf("longer string measured narrower: %v <= %v", w2, w1)
	}
	_, h3 := f.Measure("a\nb")
	if h3 < 2*f.LineHeight()-0.5 {
		t.Errorf("two lines measured %v tall, line height %v", h3, f.LineHeight())
	}
}

func TestLoadFontFace(t *testing.T) {
	f, err := LoadFontFace(goregular.TTF, 12)
	if err != nil {
		t.Fatal(err)
	}
	big := DefaultFontFace(48)
	if f.LineHeight() >= big.LineHeight() {
		t.Errorf("12pt line height %v >= 48pt %v", f.LineHeight(), big.LineHeight())
	}
	if _, err := LoadFontFace([]byte("not a font"), 12); err == nil {
		t.Error("expected error for garbage font data")
	}
}

func TestTextBlockMeasureWithoutFace(t *testing.T) {
	tb := &TextBlock{Content: "hello"}
	if w, h := tb.Measure(); w != 0 || h != 0 {
		t.Errorf("Measure without face = %v x %v", w, h)
	}
}
