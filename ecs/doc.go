// Package ecs bridges memewall into a [Donburi] world.
//
// [NewDonburiStore] publishes scene interaction events as typed events.
// [NewDonburiSink] mirrors the background wall: every element on screen is
// an entity carrying an [ElementData] component, and each lifecycle change
// is published to [WallEventType].
//
// Usage:
//
//	world := donburi.NewWorld()
//	scene.SetEntityStore(ecs.NewDonburiStore(world))
//	wall := memewall.NewWall(cfg, vp, pool, renderer, memewall.WallOptions{
//		Sink: ecs.NewDonburiSink(world),
//	})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
