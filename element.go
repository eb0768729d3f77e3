package domlayer

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrElementNotFound is returned when a Document resolves an identifier to
// no element without reporting an error of its own.
var ErrElementNotFound = errors.New("domlayer: element not found")

// lastApplied mirrors the styles most recently written to the element bound
// at generation gen. Each field is only meaningful when its has* flag is set.
type lastApplied struct {
	gen uint64

	hasVisible bool
	visible    bool

	hasMatrix bool
	matrix    Matrix

	hasAlpha bool
	alpha    float64
}

// ElementNode places an external document element in the scene graph. The
// canvas never draws it; instead, after every rasterization pass, the
// node's cumulative transform, alpha and visibility are written to the
// element's inline style. Writes only happen for values that changed since
// the last pass.
//
// The element's lifetime belongs to the caller. Removing the node from the
// scene stops further writes; it does not touch the element.
type ElementNode struct {
	node    *Node
	base    SceneNode
	element Element
	gen     uint64 // bumped by every successful SetElement
	last    lastApplied
	syncFn  func() error
}

// NewElementNode creates an element node bound to el and forces the
// element's positioning mode to absolute with a top-left transform origin.
// el may be nil, in which case the node does nothing until SetElement.
func NewElementNode(name string, el Element) (*ElementNode, error) {
	n := &Node{Name: name, Type: NodeTypeElement}
	nodeDefaults(n)
	e := newElementNode(n, n)
	if err := e.SetElement(el); err != nil {
		return nil, err
	}
	n.ticker = e
	return e, nil
}

// NewElementNodeByID resolves id through doc and binds the result.
func NewElementNodeByID(name string, doc Document, id string) (*ElementNode, error) {
	el, err := doc.ElementByID(id)
	if err != nil {
		return nil, fmt.Errorf("domlayer: resolve element %q: %w", id, err)
	}
	if el == nil {
		return nil, fmt.Errorf("%w: %q", ErrElementNotFound, id)
	}
	return NewElementNode(name, el)
}

// newElementNode wires an element node over an arbitrary SceneNode.
func newElementNode(n *Node, base SceneNode) *ElementNode {
	n.Interactable = false
	e := &ElementNode{node: n, base: base}
	e.syncFn = e.sync
	return e
}

// Node returns the scene node to position and add to the tree.
func (e *ElementNode) Node() *Node {
	return e.node
}

// Element returns the bound element, or nil.
func (e *ElementNode) Element() Element {
	return e.element
}

// SetElement binds el (or unbinds with nil). A new element gets the same
// positioning setup as at construction, and the next pass writes every
// style to it. If the setup fails the previous binding is kept.
func (e *ElementNode) SetElement(el Element) error {
	if el != nil {
		if err := el.SetStyle(StylePosition, "absolute"); err != nil {
			return fmt.Errorf("domlayer: element %q: set position: %w", e.node.Name, err)
		}
		if err := el.SetStyle(StyleTransformOrigin, "0% 0%"); err != nil {
			return fmt.Errorf("domlayer: element %q: set transform origin: %w", e.node.Name, err)
		}
	}
	e.element = el
	e.gen++
	return nil
}

// IsVisible reports whether an element is bound. It says nothing about
// whether the element is inside the viewport.
func (e *ElementNode) IsVisible() bool {
	return e.element != nil
}

// MouseEnabled is always false: element nodes never take part in the
// scene's pointer targeting. Attach handlers to the element itself.
func (e *ElementNode) MouseEnabled() bool {
	return false
}

// Draw reports the node as drawn without touching screen.
func (e *ElementNode) Draw(screen *ebiten.Image, ignoreCache bool) bool {
	return true
}

// Tick subscribes the node to its stage's next draw-end signal and then
// runs the base node's tick. Repeated ticks within one frame subscribe once.
func (e *ElementNode) Tick(dt float64) {
	if stage := e.base.Stage(); stage != nil {
		stage.OnDrawEnd(e, e.syncFn)
	}
	e.base.Tick(dt)
}

// sync writes the changed parts of the node's cumulative state to the
// element. Invisible nodes only publish their visibility; nodes that left the
// stage since they subscribed write nothing.
func (e *ElementNode) sync() error {
	el := e.element
	if el == nil || e.base.Stage() == nil {
		return nil
	}
	if e.last.gen != e.gen {
		e.last = lastApplied{gen: e.gen}
	}

	snap := e.base.Snapshot()

	if !e.last.hasVisible || e.last.visible != snap.Visible {
		if err := el.SetStyle(StyleVisibility, FormatVisibility(snap.Visible)); err != nil {
			return e.syncErr(StyleVisibility, err)
		}
		e.last.hasVisible = true
		e.last.visible = snap.Visible
	}
	if !snap.Visible {
		return nil
	}

	if !e.last.hasMatrix || !e.last.matrix.Equal(snap.Matrix) {
		if err := el.SetStyle(StyleTransform, FormatMatrix(snap.Matrix)); err != nil {
			return e.syncErr(StyleTransform, err)
		}
		e.last.hasMatrix = true
		e.last.matrix = snap.Matrix
	}

	if !e.last.hasAlpha || e.last.alpha != snap.Alpha {
		if err := el.SetStyle(StyleOpacity, FormatOpacity(snap.Alpha)); err != nil {
			return e.syncErr(StyleOpacity, err)
		}
		e.last.hasAlpha = true
		e.last.alpha = snap.Alpha
	}
	return nil
}

func (e *ElementNode) syncErr(property string, err error) error {
	return fmt.Errorf("domlayer: element %q: set %s: %w", e.node.Name, property, err)
}

// String implements fmt.Stringer.
func (e *ElementNode) String() string {
	return "[ElementNode (name=" + e.node.Name + ")]"
}
