package domlayer

// Matrix is a 2D affine transform laid out as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Matrix [6]float64

// Identity is the identity affine matrix.
var Identity = Matrix{1, 0, 0, 1, 0, 0}

// Equal reports whether every component of m equals the matching component
// of o exactly.
func (m Matrix) Equal(o Matrix) bool {
	return m == o
}

// TransformSnapshot is a node's cumulative placement and visual state in the
// coordinate space of the scene root, composed from the node and all of its
// ancestors.
type TransformSnapshot struct {
	Matrix  Matrix
	Alpha   float64
	Visible bool // false if the node or any ancestor is hidden
}

// Snapshot composes the node's local transform, alpha and visibility with
// those of every ancestor. It walks the parent chain on each call, so the
// result reflects the tree as it is now rather than the last traversal.
func (n *Node) Snapshot() TransformSnapshot {
	snap := TransformSnapshot{Matrix: Identity, Alpha: 1, Visible: true}
	for p := n; p != nil; p = p.Parent {
		snap.Matrix = multiplyAffine(computeLocalTransform(p), snap.Matrix)
		snap.Alpha *= p.Alpha
		snap.Visible = snap.Visible && p.Visible
	}
	return snap
}
