package marker

// Group is an in-memory Resolver that stores elements by href and by bar number.
type Group struct {
	Elements map[string][]Element
	Bars     map[int][]Element
}

// Create a new Group object with reasonable defaults for real usage.
func NewGroup() *Group {
	return &Group{
		Elements: make(map[string][]Element),
		Bars:     make(map[int][]Element),
	}
}

// AddElement registers an element under href. An href may own several elements, e.g. a note head and its
// stem drawn as separate objects.
func (g *Group) AddElement(href string, e Element) {
	g.Elements[href] = append(g.Elements[href], e)
}

// AddBarElement registers an element for a bar. A pickup bar may own more than one element.
func (g *Group) AddBarElement(bar int, e Element) {
	g.Bars[bar] = append(g.Bars[bar], e)
}

// HasElement returns true if there is at least one element registered for href
func (g *Group) HasElement(href string) bool {
	return len(g.Elements[href]) > 0
}

// Count returns the number of hrefs in the group
func (g *Group) Count() int {
	return len(g.Elements)
}

// Merge copies the registrations of the other groups into g. Hrefs and bars present in several groups
// collect the elements of all of them.
func (g *Group) Merge(groups ...*Group) *Group {
	for _, other := range groups {
		for href, elements := range other.Elements {
			g.Elements[href] = append(g.Elements[href], elements...)
		}
		for bar, elements := range other.Bars {
			g.Bars[bar] = append(g.Bars[bar], elements...)
		}
	}
	return g
}

func (g *Group) ElementsFor(href string) []Element {
	return g.Elements[href]
}

func (g *Group) BarElements(bar int) []Element {
	return g.Bars[bar]
}

// Collect resolves every href and bar once through r and registers the result in a new Group. Hrefs and
// bars r has no elements for are left out.
func Collect(r Resolver, hrefs []string, bars []int) *Group {
	g := NewGroup()
	for _, href := range hrefs {
		if g.HasElement(href) {
			continue
		}
		for _, e := range r.ElementsFor(href) {
			g.AddElement(href, e)
		}
	}
	for _, bar := range bars {
		if len(g.Bars[bar]) > 0 {
			continue
		}
		for _, e := range r.BarElements(bar) {
			g.AddBarElement(bar, e)
		}
	}
	return g
}
