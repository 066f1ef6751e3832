package memewall

import "time"

// Renderer is the presentation port of the wall. The wall decides what is on
// screen and when; a Renderer decides how it looks.
//
// Show is called once per element. If the element's image cannot be
// displayed the renderer calls onError, at any time, at most once. Hide
// starts a fade-out lasting exactly fade; the wall calls Remove when it
// ends. Move reports a changed Record position.
type Renderer interface {
	Show(el *Element, onError func(error))
	Hide(el *Element, fade time.Duration)
	Move(el *Element)
	Remove(el *Element)
}

// NopRenderer displays nothing. Useful for headless simulation.
type NopRenderer struct{}

func (NopRenderer) Show(*Element, func(error))   {}
func (NopRenderer) Hide(*Element, time.Duration) {}
func (NopRenderer) Move(*Element)                {}
func (NopRenderer) Remove(*Element)              {}
