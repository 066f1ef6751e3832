package ecs

import (
	"github.com/phanxgames/memewall"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// InteractionEventType carries scene clicks into the world.
var InteractionEventType = events.NewEventType[memewall.InteractionEvent]()

// WallEventType carries wall lifecycle changes into the world.
var WallEventType = events.NewEventType[memewall.WallEvent]()

// ElementData is the component attached to one background element.
type ElementData struct {
	ID     string
	Image  string
	X, Y   float64
	Size   float64
	Fading bool
}

// ElementComponent marks entities that mirror wall elements.
var ElementComponent = donburi.NewComponentType[ElementData]()

var elementQuery = donburi.NewQuery(filter.Contains(ElementComponent))

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Events are queued; drain them with InteractionEventType.ProcessEvents.
func NewDonburiStore(world donburi.World) memewall.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event memewall.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// DonburiSink mirrors wall elements as entities and publishes every
// lifecycle change to WallEventType.
type DonburiSink struct {
	world    donburi.World
	entities map[string]donburi.Entity
}

// NewDonburiSink creates a wall EventSink backed by a Donburi world.
func NewDonburiSink(world donburi.World) *DonburiSink {
	return &DonburiSink{world: world, entities: make(map[string]donburi.Entity)}
}

// EmitWallEvent implements memewall.EventSink.
func (s *DonburiSink) EmitWallEvent(ev memewall.WallEvent) {
	switch ev.Type {
	case memewall.WallElementShown:
		e := s.world.Create(ElementComponent)
		ElementComponent.SetValue(s.world.Entry(e), ElementData{
			ID:    ev.ElementID,
			Image: ev.Image,
			X:     ev.X,
			Y:     ev.Y,
			Size:  ev.Size,
		})
		s.entities[ev.ElementID] = e
	case memewall.WallElementFading:
		if e, ok := s.entities[ev.ElementID]; ok && s.world.Valid(e) {
			ElementComponent.Get(s.world.Entry(e)).Fading = true
		}
	case memewall.WallElementRemoved, memewall.WallImageFailed:
		if e, ok := s.entities[ev.ElementID]; ok {
			if s.world.Valid(e) {
				s.world.Remove(e)
			}
			delete(s.entities, ev.ElementID)
		}
	case memewall.WallPurged:
		for id, e := range s.entities {
			if s.world.Valid(e) {
				s.world.Remove(e)
			}
			delete(s.entities, id)
		}
	}
	WallEventType.Publish(s.world, ev)
}

// CountElements returns the number of element entities in world.
func CountElements(world donburi.World) int {
	return elementQuery.Count(world)
}
