package domlayer

// nodeIDCounter is a plain counter; domlayer is single-threaded.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Ticker overrides a node's per-frame tick. When set, the scene calls the
// ticker instead of Node.Tick; the ticker is expected to forward to Node.Tick
// itself.
type Ticker interface {
	Tick(dt float64)
}

// SceneNode is the capability set a bridge node needs from its place in the
// tree: tick propagation, ancestor transform composition, and the stage the
// node is attached to. *Node satisfies it.
type SceneNode interface {
	Tick(dt float64)
	Snapshot() TransformSnapshot
	Stage() Stage
}

// Node is the fundamental scene graph element. A single flat struct is used for
// all node types to avoid interface dispatch on the hot path.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local)
	X, Y         float64
	ScaleX       float64
	ScaleY       float64
	Rotation     float64
	SkewX, SkewY float64
	PivotX       float64
	PivotY       float64

	// Computed, refreshed by Scene.Update and render traversal.
	worldTransform Matrix
	worldAlpha     float64
	transformDirty bool

	// Visibility & interaction
	Alpha        float64
	Visible      bool
	Interactable bool

	// Ordering
	ZIndex int

	// Metadata
	UserData any

	// Sprite fields (NodeTypeSprite). The rectangle covers (0,0)-(Width,Height)
	// in local space.
	Color         Color
	Width, Height float64

	// OnUpdate is called once per tick while the node is attached, hidden or not.
	OnUpdate func(dt float64)

	// ticker replaces Tick during scene traversal (ElementNode).
	ticker Ticker

	// scene is set on the root node only.
	scene *Scene

	// Internal
	disposed       bool
	childrenSorted bool
	sortedChildren []*Node // reused buffer for ZIndex-sorted traversal order
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Alpha = 1
	n.Color = ColorWhite
	n.Visible = true
	n.transformDirty = true
	n.childrenSorted = true
	n.worldTransform = Identity
	n.worldAlpha = 1
}

// NewContainer creates a container node with no visual representation.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewSprite creates a solid color rectangle of the given size.
func NewSprite(name string, w, h float64, c Color) *Node {
	n := &Node{Name: name, Type: NodeTypeSprite, Width: w, Height: h}
	nodeDefaults(n)
	n.Color = c
	return n
}

// --- Tick & stage ---

// Tick runs the node's own per-frame behavior. Children are ticked by the
// scene, not by their parent.
func (n *Node) Tick(dt float64) {
	if n.OnUpdate != nil {
		n.OnUpdate(dt)
	}
}

// Stage returns the scene whose root this node descends from, or nil when
// the node is not attached to a scene.
func (n *Node) Stage() Stage {
	root := n
	for root.Parent != nil {
		root = root.Parent
	}
	if root.scene == nil {
		return nil
	}
	return root.scene
}

// Scene is like Stage but returns the concrete *Scene.
func (n *Node) Scene() *Scene {
	root := n
	for root.Parent != nil {
		root = root.Parent
	}
	return root.scene
}

// --- Tree manipulation ---

// AddChild appends child to this node's children. A child that already has a
// parent is moved. Panics if child is nil, is an ancestor of this node, or is
// a scene root.
func (n *Node) AddChild(child *Node) {
	n.checkAdd(child, "AddChild")
	n.attach(child, -1)
}

// AddChildAt inserts child at index, moving it from its current parent if
// it has one. index may equal NumChildren. Panics like AddChild, and on an
// index out of range.
func (n *Node) AddChildAt(child *Node, index int) {
	n.checkAdd(child, "AddChildAt")
	if index < 0 || index > len(n.children) {
		panic("domlayer: child index out of range")
	}
	n.attach(child, index)
}

func (n *Node) checkAdd(child *Node, op string) {
	if child == nil {
		panic("domlayer: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, op+" (parent)")
		debugCheckDisposed(child, op+" (child)")
	}
	if isAncestor(child, n) {
		panic("domlayer: adding child would create a cycle")
	}
	if child.scene != nil {
		panic("domlayer: cannot reparent a scene root")
	}
}

// attach links child under n at index, or at the end when index is negative
// or past the end after child left its old parent. A subtree moving within one
// scene keeps its pending draw-end writes; one leaving a scene loses them.
func (n *Node) attach(child *Node, index int) {
	var from *Scene
	if old := child.Parent; old != nil {
		from = old.Scene()
		old.unlinkAt(old.indexOf(child))
	}
	if index < 0 || index > len(n.children) {
		index = len(n.children)
	}
	child.Parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	n.childrenSorted = false
	markSubtreeDirty(child)

	if from != nil && from != n.Scene() {
		from.cancelSubtree(child)
	}
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child == nil || child.Parent != n {
		panic("domlayer: child's parent is not this node")
	}
	n.detachAt(n.indexOf(child))
}

// RemoveChildAt removes and returns the child at the given index.
func (n *Node) RemoveChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		panic("domlayer: child index out of range")
	}
	return n.detachAt(index)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// RemoveChildren detaches all children from this node.
// Children are NOT disposed.
func (n *Node) RemoveChildren() {
	s := n.Scene()
	for i, child := range n.children {
		child.Parent = nil
		markSubtreeDirty(child)
		if s != nil {
			s.cancelSubtree(child)
		}
		n.children[i] = nil
	}
	n.children = n.children[:0]
	n.childrenSorted = true
}

// detachAt unlinks the child at index i. Element nodes in its subtree lose
// any write still pending on this scene's draw-end signal, so nothing is
// written once they are off the stage.
func (n *Node) detachAt(i int) *Node {
	s := n.Scene()
	child := n.unlinkAt(i)
	markSubtreeDirty(child)
	if s != nil {
		s.cancelSubtree(child)
	}
	return child
}

// unlinkAt removes children[i] and clears its Parent.
func (n *Node) unlinkAt(i int) *Node {
	child := n.children[i]
	copy(n.children[i:], n.children[i+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	child.Parent = nil
	n.childrenSorted = false
	return child
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	panic("domlayer: child's parent is not this node")
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// SetZIndex sets the node's ZIndex and marks the parent's children as unsorted.
func (n *Node) SetZIndex(z int) {
	if n.ZIndex == z {
		return
	}
	n.ZIndex = z
	if n.Parent != nil {
		n.Parent.childrenSorted = false
	}
}

// --- Disposal ---

// Dispose detaches this node, marks it and all its descendants as disposed,
// and drops their pending draw-end writes. Disposing a scene root empties
// the scene.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	if n.Parent != nil {
		n.RemoveFromParent()
	} else if n.scene != nil {
		n.scene.cancelSubtree(n)
	}
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.sortedChildren = nil
	n.Parent = nil
	n.UserData = nil
	n.OnUpdate = nil
	n.ticker = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}
