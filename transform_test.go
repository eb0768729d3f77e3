package domlayer

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want Matrix) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

// --- computeLocalTransform ---

func TestLocalTransform(t *testing.T) {
	tests := []struct {
		name  string
		setup func(n *Node)
		want  Matrix
	}{
		{"identity", func(n *Node) {}, Identity},
		{"translation", func(n *Node) { n.X, n.Y = 10, 20 }, Matrix{1, 0, 0, 1, 10, 20}},
		{"scale", func(n *Node) { n.ScaleX, n.ScaleY = 2, 3 }, Matrix{2, 0, 0, 3, 0, 0}},
		// cos(90)=0, sin(90)=1
		{"rot90", func(n *Node) { n.Rotation = math.Pi / 2 }, Matrix{0, 1, -1, 0, 0, 0}},
		// T(100,200) * T(-16,-16)
		{"pivot", func(n *Node) { n.X, n.Y, n.PivotX, n.PivotY = 100, 200, 16, 16 }, Matrix{1, 0, 0, 1, 84, 184}},
		{"skew", func(n *Node) { n.SkewX = math.Pi / 4 }, Matrix{1, 0, 1, 1, 0, 0}},
		{"combined", func(n *Node) {
			n.X, n.Y = 50, 100
			n.ScaleX, n.ScaleY = 2, 2
			n.Rotation = math.Pi / 2
		}, Matrix{0, 2, -2, 0, 50, 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewContainer("test")
			tt.setup(n)
			assertMatrix(t, tt.name, computeLocalTransform(n), tt.want)
		})
	}
}

func TestLocalTransformMatchesExplicitProduct(t *testing.T) {
	n := NewContainer("test")
	n.SetPosition(12, -7)
	n.SetScale(1.5, 0.75)
	n.SetSkew(0.3, -0.2)
	n.SetRotation(0.9)
	n.SetPivot(4, 10)

	sin, cos := math.Sincos(n.Rotation)
	want := Identity
	for _, m := range []Matrix{
		{1, 0, 0, 1, n.X, n.Y},
		{cos, sin, -sin, cos, 0, 0},
		{1, math.Tan(n.SkewY), math.Tan(n.SkewX), 1, 0, 0},
		{n.ScaleX, 0, 0, n.ScaleY, 0, 0},
		{1, 0, 0, 1, -n.PivotX, -n.PivotY},
	} {
		want = multiplyAffine(want, m)
	}
	assertMatrix(t, "expanded", computeLocalTransform(n), want)
}

// --- multiplyAffine ---

func TestMultiplyAffine(t *testing.T) {
	m := Matrix{2, 1, 3, 4, 5, 6}
	assertMatrix(t, "id*m", multiplyAffine(Identity, m), m)
	assertMatrix(t, "m*id", multiplyAffine(m, Identity), m)

	a := Matrix{1, 0, 0, 1, 10, 20}
	b := Matrix{1, 0, 0, 1, 5, 3}
	assertMatrix(t, "translations", multiplyAffine(a, b), Matrix{1, 0, 0, 1, 15, 23})
}

// --- updateWorldTransform ---

func TestWorldTransformAndAlpha(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	parent.AddChild(child)
	parent.X = 100
	child.X = 10
	parent.Alpha = 0.5
	child.Alpha = 0.5

	updateWorldTransform(parent, Identity, 1.0, false)

	assertNear(t, "parent.tx", parent.worldTransform[4], 100)
	assertNear(t, "child.tx", child.worldTransform[4], 110)
	assertNear(t, "child.worldAlpha", child.worldAlpha, 0.25)
}

func TestDirtyFlag(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	parent.AddChild(child)
	parent.X = 100
	child.X = 10
	updateWorldTransform(parent, Identity, 1.0, false)

	// Direct field writes without MarkDirty are not picked up.
	child.X = 999
	updateWorldTransform(parent, Identity, 1.0, false)
	assertNear(t, "child.tx (stale)", child.worldTransform[4], 110)

	child.SetPosition(20, 0)
	updateWorldTransform(parent, Identity, 1.0, false)
	assertNear(t, "child.tx (setter)", child.worldTransform[4], 120)

	parent.SetPosition(200, 0)
	updateWorldTransform(parent, Identity, 1.0, false)
	assertNear(t, "child.tx (from parent)", child.worldTransform[4], 220)
}

func TestDeepHierarchy(t *testing.T) {
	nodes := make([]*Node, 10)
	for i := range nodes {
		nodes[i] = NewContainer("")
		nodes[i].X = 10
		if i > 0 {
			nodes[i-1].AddChild(nodes[i])
		}
	}
	updateWorldTransform(nodes[0], Identity, 1.0, false)
	assertNear(t, "deep.tx", nodes[9].worldTransform[4], 100)
}

func TestSettersDirty(t *testing.T) {
	n := NewContainer("test")
	setters := map[string]func(){
		"SetPosition": func() { n.SetPosition(1, 2) },
		"SetScale":    func() { n.SetScale(2, 2) },
		"SetRotation": func() { n.SetRotation(1) },
		"SetSkew":     func() { n.SetSkew(0.1, 0.2) },
		"SetPivot":    func() { n.SetPivot(5, 5) },
		"SetAlpha":    func() { n.SetAlpha(0.5) },
		"MarkDirty":   func() { n.MarkDirty() },
	}
	for name, set := range setters {
		n.transformDirty = false
		set()
		if !n.transformDirty {
			t.Errorf("%s should set dirty", name)
		}
	}
}

// --- Snapshot ---

func TestSnapshotComposesAncestors(t *testing.T) {
	root := NewContainer("root")
	group := NewContainer("group")
	leaf := NewContainer("leaf")
	root.AddChild(group)
	group.AddChild(leaf)

	root.SetPosition(100, 50)
	group.SetScale(2, 2)
	group.SetAlpha(0.5)
	leaf.SetPosition(10, 10)
	leaf.SetAlpha(0.5)

	snap := leaf.Snapshot()
	assertMatrix(t, "snapshot", snap.Matrix, Matrix{2, 0, 0, 2, 120, 70})
	assertNear(t, "alpha", snap.Alpha, 0.25)
	if !snap.Visible {
		t.Error("snapshot should be visible")
	}
}

func TestSnapshotVisibilityIsConjunction(t *testing.T) {
	root := NewContainer("root")
	group := NewContainer("group")
	leaf := NewContainer("leaf")
	root.AddChild(group)
	group.AddChild(leaf)

	group.SetVisible(false)
	if leaf.Snapshot().Visible {
		t.Error("hidden ancestor should hide the snapshot")
	}
	if !root.Snapshot().Visible {
		t.Error("root should stay visible")
	}
	group.SetVisible(true)
	leaf.SetVisible(false)
	if leaf.Snapshot().Visible {
		t.Error("hidden node should hide its own snapshot")
	}
}

func TestSnapshotMatchesWorldTransform(t *testing.T) {
	s := NewScene()
	group := NewContainer("group")
	leaf := NewContainer("leaf")
	s.Root().AddChild(group)
	group.AddChild(leaf)
	group.SetPosition(30, 40)
	group.SetRotation(math.Pi / 5)
	group.SetPivot(4, 8)
	leaf.SetSkew(0.2, 0)
	leaf.SetPosition(-7, 3)

	if err := s.Step(1.0 / 60); err != nil {
		t.Fatal(err)
	}
	assertMatrix(t, "snapshot vs world", leaf.Snapshot().Matrix, leaf.WorldTransform())
}

func TestSnapshotReadsCurrentTree(t *testing.T) {
	n := NewContainer("n")
	n.X = 42 // no MarkDirty
	assertNear(t, "tx", n.Snapshot().Matrix[4], 42)
}

func TestMatrixEqual(t *testing.T) {
	m := Matrix{1, 2, 3, 4, 5, 6}
	if !m.Equal(Matrix{1, 2, 3, 4, 5, 6}) {
		t.Error("identical matrices should be equal")
	}
	if m.Equal(Identity) {
		t.Error("different matrices should not be equal")
	}
}
