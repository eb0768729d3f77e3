// Package rodsurface binds domlayer element nodes to elements of a live
// browser page driven over the Chrome DevTools Protocol by go-rod.
//
// Every SetStyle is one CDP round trip, so the write minimisation done by
// ElementNode matters a lot more here than in-page.
package rodsurface

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"

	"github.com/phanxgames/domlayer"
)

// DefaultTimeout bounds element lookups.
const DefaultTimeout = 10 * time.Second

// setStyleJS runs with this bound to the element.
const setStyleJS = `function (property, value) { this.style.setProperty(property, value) }`

// getElementByIDJS resolves an id without CSS selector escaping concerns.
const getElementByIDJS = `(id) => document.getElementById(id)`

// Page is a domlayer.Document over a rod page.
type Page struct {
	page    *rod.Page
	timeout time.Duration
}

// New wraps page. Lookups wait up to DefaultTimeout for the element to appear.
func New(page *rod.Page) *Page {
	return &Page{page: page, timeout: DefaultTimeout}
}

// WithTimeout returns a copy whose lookups wait up to d.
func (p *Page) WithTimeout(d time.Duration) *Page {
	cp := *p
	if d > 0 {
		cp.timeout = d
	}
	return &cp
}

// WithContext returns a copy bound to ctx. Elements resolved through the
// copy inherit ctx for their style writes.
func (p *Page) WithContext(ctx context.Context) *Page {
	cp := *p
	cp.page = p.page.Context(ctx)
	return &cp
}

// Rod returns the underlying page.
func (p *Page) Rod() *rod.Page {
	return p.page
}

// ElementByID implements domlayer.Document.
func (p *Page) ElementByID(id string) (domlayer.Element, error) {
	el, err := p.page.Timeout(p.timeout).ElementByJS(rod.Eval(getElementByIDJS, id))
	if err != nil {
		return nil, fmt.Errorf("rodsurface: element #%s: %w", id, err)
	}
	return &Element{el: el.Context(p.page.GetContext())}, nil
}

// Element resolves the first element matching a CSS selector.
func (p *Page) Element(selector string) (*Element, error) {
	el, err := p.page.Timeout(p.timeout).Element(selector)
	if err != nil {
		return nil, fmt.Errorf("rodsurface: element %s: %w", selector, err)
	}
	return &Element{el: el.Context(p.page.GetContext())}, nil
}

// Element is a domlayer.Element over a rod element.
type Element struct {
	el *rod.Element
}

// Wrap adapts an already resolved rod element.
func Wrap(el *rod.Element) *Element {
	return &Element{el: el}
}

// Rod returns the underlying element.
func (e *Element) Rod() *rod.Element {
	return e.el
}

// SetStyle implements domlayer.Element.
func (e *Element) SetStyle(property, value string) error {
	if _, err := e.el.Eval(setStyleJS, property, value); err != nil {
		return fmt.Errorf("rodsurface: set %s: %w", property, err)
	}
	return nil
}

// Style reads back the inline value of property.
func (e *Element) Style(property string) (string, error) {
	res, err := e.el.Eval(`function (property) { return this.style.getPropertyValue(property) }`, property)
	if err != nil {
		return "", fmt.Errorf("rodsurface: get %s: %w", property, err)
	}
	return res.Value.Str(), nil
}
