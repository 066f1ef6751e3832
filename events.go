package memewall

import (
	"fmt"
	"time"
)

// WallEventType identifies a lifecycle change on the wall.
type WallEventType uint8

const (
	WallElementShown   WallEventType = iota // element created and handed to the renderer
	WallElementFading                       // fade-out started
	WallElementRemoved                      // element left the wall
	WallImageFailed                         // image failed to load; element dropped
	WallTurnover                            // forced turnover started at max population
	WallPurged                              // every element cleared after a resize
)

// String returns a short name for logs.
func (t WallEventType) String() string {
	switch t {
	case WallElementShown:
		return "shown"
	case WallElementFading:
		return "fading"
	case WallElementRemoved:
		return "removed"
	case WallImageFailed:
		return "image-failed"
	case WallTurnover:
		return "turnover"
	case WallPurged:
		return "purged"
	default:
		return "unknown"
	}
}

// ParseWallEventType is the inverse of WallEventType.String.
func ParseWallEventType(name string) (WallEventType, error) {
	for t := WallElementShown; t <= WallPurged; t++ {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown wall event %q", name)
}

// WallEvent carries one lifecycle change.
type WallEvent struct {
	Type      WallEventType
	ElementID string
	Image     string
	X, Y      float64
	Size      float64
	Count     int // live elements after the change
	At        time.Time
}

// EventSink receives wall events. Set one with WallOptions.Sink to forward
// lifecycle changes to an ECS or a metrics pipeline.
type EventSink interface {
	EmitWallEvent(event WallEvent)
}
