package domlayer

import "testing"

type styleWrite struct {
	property, value string
}

// recordingElement is an Element that records every style write.
type recordingElement struct {
	style   map[string]string
	writes  []styleWrite
	fail    error
	onWrite func(property, value string)
}

func newRecordingElement() *recordingElement {
	return &recordingElement{style: make(map[string]string)}
}

func (r *recordingElement) SetStyle(property, value string) error {
	if r.fail != nil {
		return r.fail
	}
	if r.onWrite != nil {
		r.onWrite(property, value)
	}
	r.style[property] = value
	r.writes = append(r.writes, styleWrite{property, value})
	return nil
}

func (r *recordingElement) count(property string) int {
	n := 0
	for _, w := range r.writes {
		if w.property == property {
			n++
		}
	}
	return n
}

func (r *recordingElement) reset() {
	r.writes = nil
}

// fakeDocument resolves ids from a map.
type fakeDocument struct {
	elements map[string]Element
	err      error
}

func (d *fakeDocument) ElementByID(id string) (Element, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.elements[id], nil
}

// fakeSceneNode hands out a fixed snapshot and stage.
type fakeSceneNode struct {
	snap  TransformSnapshot
	stage Stage
	ticks int
}

func (f *fakeSceneNode) Tick(dt float64)             { f.ticks++ }
func (f *fakeSceneNode) Snapshot() TransformSnapshot { return f.snap }
func (f *fakeSceneNode) Stage() Stage                { return f.stage }

// frame runs one tick and one canvas-less draw pass.
func frame(t *testing.T, s *Scene) {
	t.Helper()
	if err := s.Step(1.0 / 60); err != nil {
		t.Fatalf("Step: %v", err)
	}
	s.Draw(nil)
}

// newAttachedElement creates a scene with one element node under the root.
func newAttachedElement(t *testing.T) (*Scene, *ElementNode, *recordingElement) {
	t.Helper()
	s := NewScene()
	el := newRecordingElement()
	e, err := NewElementNode("overlay", el)
	if err != nil {
		t.Fatalf("NewElementNode: %v", err)
	}
	s.Root().AddChild(e.Node())
	el.reset()
	return s, e, el
}
