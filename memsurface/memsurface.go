// Package memsurface is an in-memory element surface. Elements record every
// style write, which makes it useful for tests and dry runs where no browser
// is available.
package memsurface

import (
	"fmt"
	"sort"

	"github.com/phanxgames/domlayer"
)

// Write is one recorded SetStyle call.
type Write struct {
	Property string
	Value    string
}

// String formats the write as a CSS declaration.
func (w Write) String() string {
	return w.Property + ": " + w.Value
}

// Element is an in-memory element. The zero value is not usable; create
// elements with NewElement or Document.Create.
type Element struct {
	ID string

	// Fail, when non-nil, is returned by every SetStyle call and nothing is
	// recorded.
	Fail error

	style  map[string]string
	writes []Write
}

// NewElement creates an element with an empty style.
func NewElement(id string) *Element {
	return &Element{ID: id, style: make(map[string]string)}
}

// SetStyle implements domlayer.Element.
func (e *Element) SetStyle(property, value string) error {
	if e.Fail != nil {
		return e.Fail
	}
	e.style[property] = value
	e.writes = append(e.writes, Write{Property: property, Value: value})
	return nil
}

// Style returns the current value of property, or "" if never set.
func (e *Element) Style(property string) string {
	return e.style[property]
}

// Properties returns the names of all properties set so far, sorted.
func (e *Element) Properties() []string {
	names := make([]string, 0, len(e.style))
	for k := range e.style {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Writes returns the ordered write log. The returned slice MUST NOT be mutated.
func (e *Element) Writes() []Write {
	return e.writes
}

// WriteCount returns how many times property was written.
func (e *Element) WriteCount(property string) int {
	n := 0
	for _, w := range e.writes {
		if w.Property == property {
			n++
		}
	}
	return n
}

// ResetWrites clears the write log but keeps the current style.
func (e *Element) ResetWrites() {
	e.writes = e.writes[:0]
}

// Document is an in-memory id → element index.
type Document struct {
	elements map[string]*Element
	order    []string
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{elements: make(map[string]*Element)}
}

// Create adds a new element under id, replacing any existing one.
func (d *Document) Create(id string) *Element {
	el := NewElement(id)
	if _, ok := d.elements[id]; !ok {
		d.order = append(d.order, id)
	}
	d.elements[id] = el
	return el
}

// Lookup returns the concrete element for id.
func (d *Document) Lookup(id string) (*Element, bool) {
	el, ok := d.elements[id]
	return el, ok
}

// Elements returns every element in creation order.
func (d *Document) Elements() []*Element {
	out := make([]*Element, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.elements[id])
	}
	return out
}

// ElementByID implements domlayer.Document.
func (d *Document) ElementByID(id string) (domlayer.Element, error) {
	el, ok := d.elements[id]
	if !ok {
		return nil, fmt.Errorf("memsurface: %q: %w", id, domlayer.ErrElementNotFound)
	}
	return el, nil
}
