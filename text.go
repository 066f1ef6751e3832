package memewall

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// TextAlign controls horizontal placement of text relative to the node origin.
type TextAlign uint8

const (
	TextAlignLeft   TextAlign = iota // origin at the left edge
	TextAlignCenter                  // origin at the horizontal center
	TextAlignRight                   // origin at the right edge
)

// FontFace wraps an Ebitengine text/v2 face with cached line metrics.
type FontFace struct {
	face *text.GoTextFace
	lh   float64
}

var goRegular *text.GoTextFaceSource

// LoadFontFace parses TTF or OTF data at the given size.
func LoadFontFace(ttf []byte, size float64) (*FontFace, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("memewall: parse font: %w", err)
	}
	return newFontFace(source, size), nil
}

// DefaultFontFace returns the Go regular font at the given size. The font
// source is parsed once and shared.
func DefaultFontFace(size float64) *FontFace {
	if goRegular == nil {
		source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			panic(fmt.Sprintf("memewall: embedded font: %v", err))
		}
		goRegular = source
	}
	return newFontFace(goRegular, size)
}

func newFontFace(source *text.GoTextFaceSource, size float64) *FontFace {
	face := &text.GoTextFace{Source: source, Size: size}
	m := face.Metrics()
	return &FontFace{face: face, lh: m.HAscent + m.HDescent + m.HLineGap}
}

// Measure returns the rendered size of s.
func (f *FontFace) Measure(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lh)
}

// LineHeight returns the distance between baselines.
func (f *FontFace) LineHeight() float64 {
	return f.lh
}

// Size returns the face's point size.
func (f *FontFace) Size() float64 {
	return f.face.Size
}

// TextBlock holds the content and style of a text node.
type TextBlock struct {
	Content string
	Face    *FontFace
	Color   Color
	Align   TextAlign
}

// Measure returns the block's rendered size, or zero without a face.
func (tb *TextBlock) Measure() (width, height float64) {
	if tb.Face == nil {
		return 0, 0
	}
	return tb.Face.Measure(tb.Content)
}

// drawText renders a text node with its world transform and alpha.
func drawText(dst *ebiten.Image, n *Node) {
	tb := n.TextBlock
	if tb == nil || tb.Face == nil || tb.Content == "" {
		return
	}
	op := &text.DrawOptions{}
	op.LineSpacing = tb.Face.lh
	switch tb.Align {
	case TextAlignCenter:
		op.PrimaryAlign = text.AlignCenter
	case TextAlignRight:
		op.PrimaryAlign = text.AlignEnd
	}
	op.GeoM = geoM(n.worldTransform)
	op.ColorScale = colorScale(tb.Color, n.worldAlpha)
	text.Draw(dst, tb.Content, tb.Face.face, op)
}
