// Package memewall is the landing page of an NFT collection, built on
// [Ebitengine]: a centered hero with link buttons over a background of
// collection images that keep appearing, drifting and fading out.
//
// # Quick start
//
// [NewLanding] builds the whole page from a [Config]; [Landing.Run] opens the
// window and blocks until it closes:
//
//	cfg, err := memewall.LoadConfig("memewall.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	landing, err := memewall.NewLanding(memewall.LandingOptions{
//		Config: cfg,
//		Images: os.DirFS(cfg.Pool.Dir),
//		Assets: os.DirFS(cfg.Preload.Dir),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	log.Fatal(landing.Run(context.Background()))
//
// # Background wall
//
// The [Wall] owns the background. It picks images from an [ImagePool],
// places them with an [Allocator] that keeps them out of the content zone
// and apart from each other, and retires them after a random lifetime. All
// timing goes through a single [Scheduler] driven by [Wall.Update], so a
// [ManualClock] makes every run reproducible in tests.
//
// What an element looks like is up to a [Renderer]. [SceneRenderer] draws
// elements as floating sprites in the scene graph; any other implementation
// (a terminal view, a recorder in tests) sees the same Show, Hide, Move and
// Remove calls.
//
// # Scene graph
//
// Every visual is a [Node] under [Scene.Root]. Children inherit their
// parent's transform and alpha. Tweens (via [gween]) animate position,
// scale, alpha and color, and the pointer dispatches clicks and hovers to
// the topmost interactable node.
//
// Wall lifecycle events can be mirrored into a [Donburi] world with the
// memewall/ecs package.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package memewall
