package marker

// Element represents the set of methods required for a visual object the engine can highlight.
type Element interface {
	// SetActive marks the element as sounding (or not).
	SetActive(active bool)

	// SetVisible shows or hides the element. Used for bar overlays.
	SetVisible(visible bool)
}

// Colorable is an optional interface that allows an element to be tagged with the color slot of its voice.
type Colorable interface {
	SetColorSlot(slot int)
}

// Resolver looks up the elements drawn for a note href or a bar number.
type Resolver interface {
	// ElementsFor returns the elements linked to href. An empty result is not an error.
	ElementsFor(href string) []Element

	// BarElements returns the elements tagged with a bar number.
	BarElements(bar int) []Element
}
