package domlayer

import (
	"errors"
	"fmt"
)

// ErrCloneUnsupported is returned by ElementNode.Clone. Cloning would have
// to duplicate the caller-owned element.
var ErrCloneUnsupported = fmt.Errorf("domlayer: clone element node: %w", errors.ErrUnsupported)

// Cache is a no-op; the element is not rendered to a bitmap.
func (e *ElementNode) Cache(x, y, width, height, scale float64) {}

// Uncache is a no-op.
func (e *ElementNode) Uncache() {}

// UpdateCache is a no-op.
func (e *ElementNode) UpdateCache() {}

// HitTest always reports false. Hit-test the element directly instead.
func (e *ElementNode) HitTest(x, y float64) bool {
	return false
}

// LocalToGlobal is not supported and returns false.
func (e *ElementNode) LocalToGlobal(x, y float64) (Vec2, bool) {
	return Vec2{}, false
}

// GlobalToLocal is not supported and returns false.
func (e *ElementNode) GlobalToLocal(x, y float64) (Vec2, bool) {
	return Vec2{}, false
}

// LocalToLocal is not supported and returns false.
func (e *ElementNode) LocalToLocal(x, y float64, target *Node) (Vec2, bool) {
	return Vec2{}, false
}

// Clone always fails with ErrCloneUnsupported.
func (e *ElementNode) Clone() (*ElementNode, error) {
	return nil, ErrCloneUnsupported
}
