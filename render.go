package domlayer

import "github.com/hajimehoshi/ebiten/v2"

// renderCommand is a single solid-rectangle draw emitted during traversal.
type renderCommand struct {
	transform     Matrix
	color         Color // alpha already multiplied by world alpha
	width, height float64
	treeOrder     int
}

// traverse walks the node tree depth-first, updating world transforms and
// emitting render commands for visible sprites. Element nodes are skipped:
// they never contribute pixels to the canvas.
func (s *Scene) traverse(n *Node, parentTransform Matrix, parentAlpha float64, parentRecomputed bool, treeOrder *int) {
	if !n.Visible {
		return
	}

	recompute := n.transformDirty || parentRecomputed
	if recompute {
		local := computeLocalTransform(n)
		n.worldTransform = multiplyAffine(parentTransform, local)
		n.worldAlpha = parentAlpha * n.Alpha
		n.transformDirty = false
	}

	if n.Type == NodeTypeSprite && n.Width > 0 && n.Height > 0 && n.worldAlpha > 0 {
		*treeOrder++
		c := n.Color
		c.A *= n.worldAlpha
		s.commands = append(s.commands, renderCommand{
			transform: n.worldTransform,
			color:     c,
			width:     n.Width,
			height:    n.Height,
			treeOrder: *treeOrder,
		})
	}

	if len(n.children) == 0 {
		return
	}
	children := n.children
	if !n.childrenSorted {
		s.rebuildSortedChildren(n)
	}
	if n.sortedChildren != nil {
		children = n.sortedChildren
	}
	for _, child := range children {
		s.traverse(child, n.worldTransform, n.worldAlpha, recompute, treeOrder)
	}
}

// rebuildSortedChildren rebuilds the ZIndex-sorted traversal order for a node.
// Uses insertion sort: zero allocations, stable, and optimal for the typical
// case of few children that are nearly sorted.
func (s *Scene) rebuildSortedChildren(n *Node) {
	nc := len(n.children)
	if cap(n.sortedChildren) < nc {
		n.sortedChildren = make([]*Node, nc)
	}
	n.sortedChildren = n.sortedChildren[:nc]
	copy(n.sortedChildren, n.children)
	for i := 1; i < nc; i++ {
		key := n.sortedChildren[i]
		j := i - 1
		for j >= 0 && n.sortedChildren[j].ZIndex > key.ZIndex {
			n.sortedChildren[j+1] = n.sortedChildren[j]
			j--
		}
		n.sortedChildren[j+1] = key
	}
	n.childrenSorted = true
}

// commandGeoM builds the GeoM that maps the unit white pixel onto the
// command's rectangle in screen space.
func commandGeoM(cmd *renderCommand) ebiten.GeoM {
	var world ebiten.GeoM
	m := cmd.transform
	world.SetElement(0, 0, m[0])
	world.SetElement(1, 0, m[1])
	world.SetElement(0, 1, m[2])
	world.SetElement(1, 1, m[3])
	world.SetElement(0, 2, m[4])
	world.SetElement(1, 2, m[5])

	var g ebiten.GeoM
	g.Scale(cmd.width, cmd.height)
	g.Concat(world)
	return g
}

// submit draws every command in order onto target.
func (s *Scene) submit(target *ebiten.Image) {
	if len(s.commands) == 0 {
		return
	}
	px := ensureWhitePixel()
	var op ebiten.DrawImageOptions
	for i := range s.commands {
		cmd := &s.commands[i]
		op.GeoM = commandGeoM(cmd)
		op.ColorScale.Reset()
		a := float32(cmd.color.A)
		op.ColorScale.Scale(float32(cmd.color.R)*a, float32(cmd.color.G)*a, float32(cmd.color.B)*a, a)
		target.DrawImage(px, &op)
	}
}
