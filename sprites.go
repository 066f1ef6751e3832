package memewall

import (
	"math/rand/v2"
	"time"

	"github.com/tanema/gween/ease"
)

// SpriteOptions tunes how SceneRenderer animates elements.
type SpriteOptions struct {
	FadeIn time.Duration
	// FloatAmplitude is the vertical bob in pixels; zero disables floating.
	FloatAmplitude float64
	FloatPeriod    time.Duration
	Rand           *rand.Rand
}

// spriteState is what SceneRenderer hangs on Element.UserData.
type spriteState struct {
	root   *Node // positioned at the element's record
	sprite *Node // bobs inside root
	fade   *TweenGroup
	float  *TweenGroup
}

// SceneRenderer shows wall elements as sprites in a scene layer.
type SceneRenderer struct {
	scene  *Scene
	layer  *Node
	loader ImageLoader
	opts   SpriteOptions
}

// NewSceneRenderer creates a renderer that adds element sprites to layer.
func NewSceneRenderer(scene *Scene, layer *Node, loader ImageLoader, opts SpriteOptions) *SceneRenderer {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(1, 2))
	}
	return &SceneRenderer{scene: scene, layer: layer, loader: loader, opts: opts}
}

// Layer returns the container holding element sprites.
func (r *SceneRenderer) Layer() *Node {
	return r.layer
}

// Show loads the element's image and fades its sprite in. Load failures
// are reported through onError before Show returns.
func (r *SceneRenderer) Show(el *Element, onError func(error)) {
	img, err := r.loader.Image(el.Image)
	if err != nil {
		onError(err)
		return
	}

	root := NewContainer(el.ID)
	root.SetPosition(el.X(), el.Y())
	root.SetTags(el.Tags())
	root.Alpha = 0

	sprite := NewSprite(el.Image, img)
	sprite.Width, sprite.Height = el.Size, el.Size
	root.AddChild(sprite)
	r.layer.AddChild(root)

	st := &spriteState{root: root, sprite: sprite}
	st.fade = TweenAlpha(root, 1, seconds(r.opts.FadeIn), ease.OutQuad)
	r.scene.AddTween(st.fade)

	if r.opts.FloatAmplitude > 0 && r.opts.FloatPeriod > 0 {
		// Start at a random point of the bob so neighbors drift out of step.
		sprite.Y = -r.opts.FloatAmplitude * r.opts.Rand.Float64()
		st.float = TweenPosition(sprite, 0, r.opts.FloatAmplitude, seconds(r.opts.FloatPeriod)/2, ease.InOutSine).Yoyo()
		r.scene.AddTween(st.float)
	}
	el.UserData = st
}

// Hide fades the element out over exactly fade.
func (r *SceneRenderer) Hide(el *Element, fade time.Duration) {
	st, ok := el.UserData.(*spriteState)
	if !ok {
		return
	}
	st.root.SetTags(el.Tags())
	st.fade.Stop()
	st.fade = TweenAlpha(st.root, 0, seconds(fade), ease.InQuad)
	r.scene.AddTween(st.fade)
}

// Move places the sprite at the element's updated record.
func (r *SceneRenderer) Move(el *Element) {
	if st, ok := el.UserData.(*spriteState); ok {
		st.root.SetPosition(el.X(), el.Y())
	}
}

// Remove disposes the sprite. Its tweens end with it.
func (r *SceneRenderer) Remove(el *Element) {
	st, ok := el.UserData.(*spriteState)
	if !ok {
		return
	}
	st.fade.Stop()
	if st.float != nil {
		st.float.Stop()
	}
	st.root.Dispose()
	el.UserData = nil
}

func seconds(d time.Duration) float32 {
	return float32(d.Seconds())
}
