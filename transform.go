package domlayer

import "math"

// computeLocalTransform builds the node's matrix relative to its parent.
// The pivot is moved to the origin first, then the node is scaled, skewed,
// rotated and finally placed at (X, Y):
//
//	T(X, Y) · R(Rotation) · K(SkewX, SkewY) · S(ScaleX, ScaleY) · T(-PivotX, -PivotY)
//
// The product is expanded by hand so a frame does no matrix multiplies per node.
func computeLocalTransform(n *Node) Matrix {
	var kx, ky float64 // tangents of the skew angles
	if n.SkewX != 0 {
		kx = math.Tan(n.SkewX)
	}
	if n.SkewY != 0 {
		ky = math.Tan(n.SkewY)
	}

	// K · S
	ka, kb := n.ScaleX, ky*n.ScaleX
	kc, kd := kx*n.ScaleY, n.ScaleY

	// (K · S) applied to the negated pivot
	ox := -n.PivotX*ka - n.PivotY*kc
	oy := -n.PivotX*kb - n.PivotY*kd

	sin, cos := math.Sincos(n.Rotation)
	return Matrix{
		cos*ka - sin*kb,
		sin*ka + cos*kb,
		cos*kc - sin*kd,
		sin*kc + cos*kd,
		cos*ox - sin*oy + n.X,
		sin*ox + cos*oy + n.Y,
	}
}

// multiplyAffine returns p · c, the child matrix c expressed in the space p
// maps into.
func multiplyAffine(p, c Matrix) Matrix {
	return Matrix{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// updateWorldTransform refreshes the cached world matrix and alpha of n and
// its descendants. Clean subtrees under a clean parent are skipped; a parent
// that was recomputed forces its children to follow.
func updateWorldTransform(n *Node, parent Matrix, parentAlpha float64, parentChanged bool) {
	changed := parentChanged || n.transformDirty
	if changed {
		n.worldTransform = multiplyAffine(parent, computeLocalTransform(n))
		n.worldAlpha = parentAlpha * n.Alpha
		n.transformDirty = false
	}
	for _, child := range n.children {
		updateWorldTransform(child, n.worldTransform, n.worldAlpha, changed)
	}
}

// --- Setters ---
//
// Each setter marks the node dirty so the next Update or Draw recomputes its
// world matrix. Element nodes do not depend on the flag; they compose their
// snapshot from the live fields.

// SetPosition sets X and Y.
func (n *Node) SetPosition(x, y float64) {
	n.X, n.Y = x, y
	n.transformDirty = true
}

// SetScale sets ScaleX and ScaleY.
func (n *Node) SetScale(sx, sy float64) {
	n.ScaleX, n.ScaleY = sx, sy
	n.transformDirty = true
}

// SetRotation sets the rotation in radians.
func (n *Node) SetRotation(r float64) {
	n.Rotation = r
	n.transformDirty = true
}

// SetSkew sets SkewX and SkewY in radians.
func (n *Node) SetSkew(sx, sy float64) {
	n.SkewX, n.SkewY = sx, sy
	n.transformDirty = true
}

// SetPivot sets the local point that scale, skew and rotation happen around.
func (n *Node) SetPivot(px, py float64) {
	n.PivotX, n.PivotY = px, py
	n.transformDirty = true
}

// SetAlpha sets the node's own opacity; descendants multiply it in.
func (n *Node) SetAlpha(a float64) {
	n.Alpha = a
	n.transformDirty = true
}

// SetVisible shows or hides the node and its subtree. Hidden element nodes
// keep ticking so they can publish that they are hidden.
func (n *Node) SetVisible(v bool) {
	n.Visible = v
}

// MarkDirty forces the world matrix to be recomputed, for use after writing
// transform fields directly.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// WorldTransform returns the world matrix cached by the last Step or Draw.
// Snapshot composes the same matrix without relying on the cache.
func (n *Node) WorldTransform() Matrix {
	return n.worldTransform
}
