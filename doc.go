// Package domlayer is a retained-mode 2D scene graph for [Ebitengine] whose
// nodes can stand in for elements of an external document, such as the DOM
// of the page a WebAssembly build runs in or a page driven over the Chrome
// DevTools Protocol.
//
// Sprites are rasterized onto the canvas as usual. An [ElementNode] is never
// rasterized: after every draw pass it publishes its cumulative placement,
// opacity and visibility to the element it is bound to, so the element
// tracks the scene exactly as a sprite would.
//
// # Quick start
//
//	scene := domlayer.NewScene()
//
//	hud := domlayer.NewContainer("hud")
//	hud.SetPosition(100, 40)
//	scene.Root().AddChild(hud)
//
//	label, err := domlayer.NewElementNodeByID("label", jsdom.New(), "label")
//	if err != nil {
//		log.Fatal(err)
//	}
//	hud.AddChild(label.Node())
//
//	domlayer.Run(scene, domlayer.RunConfig{Title: "HUD", Width: 640, Height: 480})
//
// [Run] opens a window and drives the scene. To own the loop, call
// [Scene.Update] (or [Scene.Step] with an explicit delta) followed by
// [Scene.Draw]. Draw accepts a nil screen, in which case nothing is
// rasterized but element nodes still sync; this is how the domlayer CLI
// drives pages without a canvas.
//
// # Scene graph
//
// Every visual element is a [Node]. Nodes form a tree rooted at
// [Scene.Root]. Children inherit their parent's transform, alpha and
// visibility. Create nodes with [NewContainer], [NewSprite] and
// [NewElementNode].
//
// # Element syncing
//
// Element nodes subscribe to the scene's draw-end signal while they are
// ticked and are attached to a scene. When the signal fires they compare the
// node's [TransformSnapshot] with the values last written and write only what
// changed: the transform as a CSS matrix(), opacity, and visibility. A hidden
// node writes visibility and nothing else. Style write failures are returned
// from the next [Scene.Update]. Removing or disposing an element node before
// the draw pass cancels its pending write.
//
// Element surfaces live in sub-packages: jsdom (syscall/js, js/wasm builds
// only), rodsurface (go-rod) and memsurface (in-memory, for tests and dry
// runs). Anything implementing [Element] and [Document] works.
//
// Tweens (via [gween]) animate node fields and can be handed to
// [Scene.AddTween] to run until finished.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package domlayer
