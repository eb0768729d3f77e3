package domlayer

import (
	"errors"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
)

const defaultCommandCap = 256

// Scene is the top-level object that owns the node tree, the draw-end
// signal, running tweens, and render buffers. It is the stage that bridge
// nodes subscribe to.
type Scene struct {
	root   *Node
	logger *log.Logger
	debug  bool

	// drawEnd fires after each Draw has finished rasterizing.
	drawEnd Signal

	tweens []*TweenGroup

	// tickStack is the reused work list of tickTree.
	tickStack []*Node

	// Render state
	commands []renderCommand

	frame uint64
	err   error // dispatch failure from the last Draw, handed to the next Update
}

// NewScene creates a new scene with a pre-created root container.
func NewScene() *Scene {
	s := &Scene{
		commands: make([]renderCommand, 0, defaultCommandCap),
		logger:   newDefaultLogger(),
	}
	s.root = NewContainer("root")
	s.root.scene = s
	return s
}

func newDefaultLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "domlayer",
		Level:  log.WarnLevel,
	})
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// Frame returns the number of completed Step calls.
func (s *Scene) Frame() uint64 {
	return s.frame
}

// SetLogger replaces the scene's logger. A nil logger restores the default.
func (s *Scene) SetLogger(l *log.Logger) {
	if l == nil {
		l = newDefaultLogger()
	}
	s.logger = l
	if s.debug {
		globalLogger = l
	}
}

// Logger returns the scene's logger.
func (s *Scene) Logger() *log.Logger {
	return s.logger
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are logged, and
// per-frame timing stats are logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
	if enabled {
		s.logger.SetLevel(log.DebugLevel)
		globalLogger = s.logger
	}
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply. Only valid
// with a single Scene.
var globalDebug bool

// globalLogger is the logger node-level debug checks write to.
var globalLogger = newDefaultLogger()

// OnDrawEnd implements Stage.
func (s *Scene) OnDrawEnd(key any, fn func() error) bool {
	return s.drawEnd.Once(key, fn)
}

// AddTween registers a tween group to be advanced on every Step until it
// reports Done.
func (s *Scene) AddTween(g *TweenGroup) {
	if g == nil || g.Done {
		return
	}
	s.tweens = append(s.tweens, g)
}

// NumTweens returns the number of running tween groups.
func (s *Scene) NumTweens() int {
	return len(s.tweens)
}

// Update advances the scene by one ebiten tick.
func (s *Scene) Update() error {
	return s.Step(1.0 / float64(ebiten.TPS()))
}

// Step advances the scene by dt seconds: it refreshes world transforms,
// ticks every node depth-first, then advances tweens. If the previous Draw
// recorded a draw-end failure, Step returns it instead and does nothing else.
func (s *Scene) Step(dt float64) error {
	if err := s.err; err != nil {
		s.err = nil
		return err
	}

	updateWorldTransform(s.root, Identity, 1.0, false)
	s.tickTree(dt)

	live := s.tweens[:0]
	for _, g := range s.tweens {
		g.Update(float32(dt))
		if !g.Done {
			live = append(live, g)
		}
	}
	clear(s.tweens[len(live):])
	s.tweens = live

	s.frame++
	return nil
}

// tickTree ticks every node depth-first, parents before children. Hidden
// nodes are ticked too so that bridge nodes get the chance to publish their
// hidden state. A node's children are collected right after it ticks, so a
// node detaching itself or a sibling mid-tick does not shift the walk.
func (s *Scene) tickTree(dt float64) {
	stack := append(s.tickStack[:0], s.root)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.ticker != nil {
			n.ticker.Tick(dt)
		} else {
			n.Tick(dt)
		}
		if n.disposed {
			continue
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
	clear(stack[:cap(stack)])
	s.tickStack = stack[:0]
}

// cancelSubtree drops the pending draw-end writes of every element node in
// the subtree rooted at n.
func (s *Scene) cancelSubtree(n *Node) {
	if s.drawEnd.Len() == 0 {
		return
	}
	if n.ticker != nil {
		s.drawEnd.Cancel(n.ticker)
	}
	for _, child := range n.children {
		s.cancelSubtree(child)
	}
}

// Draw traverses the scene tree, rasterizes sprites onto screen, and then
// fires the draw-end signal. A nil screen skips rasterization; the signal
// still fires. Failures returned by draw-end handlers are logged and handed
// to the next Update/Step.
func (s *Scene) Draw(screen *ebiten.Image) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.commands = s.commands[:0]
	treeOrder := 0
	s.traverse(s.root, Identity, 1.0, false, &treeOrder)
	if screen != nil {
		s.submit(screen)
	}

	var stats debugStats
	if s.debug {
		stats.rasterTime = time.Since(t0)
		stats.commandCount = len(s.commands)
		stats.handlerCount = s.drawEnd.Len()
		t0 = time.Now()
	}

	if err := s.drawEnd.Dispatch(); err != nil {
		s.logger.Error("draw end handler failed", "frame", s.frame, "err", err)
		s.err = errors.Join(s.err, err)
	}

	if s.debug {
		stats.syncTime = time.Since(t0)
		s.debugLog(stats)
	}
}

// Err returns the pending draw-end failure, if any, without clearing it.
func (s *Scene) Err() error {
	return s.err
}

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	ClearColor    Color
}

// Game adapts a Scene to ebiten.Game.
type Game struct {
	Scene  *Scene
	Config RunConfig
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	return g.Scene.Update()
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.Config.ClearColor.A > 0 {
		screen.Fill(g.Config.ClearColor.toRGBA())
	}
	g.Scene.Draw(screen)
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.Config.Width > 0 && g.Config.Height > 0 {
		return g.Config.Width, g.Config.Height
	}
	return outsideWidth, outsideHeight
}

// Run opens a window and drives scene until the window closes or a frame
// returns an error.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	return ebiten.RunGame(&Game{Scene: scene, Config: cfg})
}
