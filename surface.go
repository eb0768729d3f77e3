package domlayer

// Element is an external document element that an ElementNode positions.
type Element interface {
	// SetStyle sets one CSS property on the element's inline style.
	SetStyle(property, value string) error
}

// Document resolves element identifiers to elements.
type Document interface {
	ElementByID(id string) (Element, error)
}

// Inline style properties written by ElementNode.
const (
	StylePosition        = "position"
	StyleTransformOrigin = "transform-origin"
	StyleTransform       = "transform"
	StyleVisibility      = "visibility"
	StyleOpacity         = "opacity"
)
