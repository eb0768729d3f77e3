//go:build js && wasm

// Package jsdom binds domlayer element nodes to elements of the page the
// WebAssembly module runs in. Combined with ebiten's browser canvas this
// overlays real DOM elements (text inputs, links, video) on the scene.
package jsdom

import (
	"fmt"
	"syscall/js"

	"github.com/phanxgames/domlayer"
)

// Document is a domlayer.Document over the global document object.
type Document struct {
	doc js.Value
}

// New returns the page's document.
func New() *Document {
	return &Document{doc: js.Global().Get("document")}
}

// ElementByID implements domlayer.Document.
func (d *Document) ElementByID(id string) (domlayer.Element, error) {
	v := d.doc.Call("getElementById", id)
	if v.IsNull() || v.IsUndefined() {
		return nil, fmt.Errorf("jsdom: %q: %w", id, domlayer.ErrElementNotFound)
	}
	return Wrap(v), nil
}

// Element is a domlayer.Element over a DOM element value.
type Element struct {
	v     js.Value
	style js.Value
}

// Wrap adapts a DOM element value.
func Wrap(v js.Value) *Element {
	return &Element{v: v, style: v.Get("style")}
}

// Value returns the wrapped DOM element.
func (e *Element) Value() js.Value {
	return e.v
}

// SetStyle implements domlayer.Element.
func (e *Element) SetStyle(property, value string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if jsErr, ok := r.(js.Error); ok {
				err = fmt.Errorf("jsdom: set %s: %w", property, jsErr)
				return
			}
			panic(r)
		}
	}()
	e.style.Call("setProperty", property, value)
	return nil
}
