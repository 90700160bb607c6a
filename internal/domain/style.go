package domain

// Outline is the stroke applied to a region path or a bar.
type Outline struct {
	Stroke string
	Width  float64
}

// Visible reports whether the outline draws anything.
func (o Outline) Visible() bool {
	return o.Stroke != "" && o.Stroke != "none" && o.Width > 0
}

// ElementKind distinguishes the two linked encodings of a region key.
type ElementKind string

const (
	ElementRegion ElementKind = "region"
	ElementBar    ElementKind = "bar"
)

// Default outlines of the two views and the shared hover highlight.
var (
	DefaultRegionOutline = Outline{Stroke: "#000000", Width: 0.5}
	DefaultBarOutline    = Outline{Stroke: "none", Width: 0}
	DefaultHoverOutline  = Outline{Stroke: "#ffcd17", Width: 4}
)

// ElementStyle is the style record kept per element: the outline it was
// created with and the outline it takes while highlighted.
type ElementStyle struct {
	Base  Outline
	Hover Outline
}

// StyledElement is an element together with the outline it currently shows.
type StyledElement struct {
	Kind    ElementKind
	Key     string
	Outline Outline
}

type elementID struct {
	kind ElementKind
	key  string
}

// StyleBook owns the style record of every rendered element. Restoring an
// element always returns it to the Base recorded at registration.
type StyleBook struct {
	order   []elementID
	records map[elementID]ElementStyle
	current map[elementID]Outline
}

// NewStyleBook returns an empty book.
func NewStyleBook() *StyleBook {
	return &StyleBook{
		records: make(map[elementID]ElementStyle),
		current: make(map[elementID]Outline),
	}
}

// Register records the base and hover outlines of an element. Registering the
// same element again keeps the first record.
func (b *StyleBook) Register(kind ElementKind, key string, style ElementStyle) {
	id := elementID{kind, key}
	if _, ok := b.records[id]; ok {
		return
	}
	b.order = append(b.order, id)
	b.records[id] = style
	b.current[id] = style.Base
}

// Highlight switches every element with key to its hover outline.
func (b *StyleBook) Highlight(key string) []StyledElement {
	return b.apply(key, func(s ElementStyle) Outline { return s.Hover })
}

// Restore switches every element with key back to its recorded base outline.
func (b *StyleBook) Restore(key string) []StyledElement {
	return b.apply(key, func(s ElementStyle) Outline { return s.Base })
}

// Current returns the outline an element shows now.
func (b *StyleBook) Current(kind ElementKind, key string) (Outline, bool) {
	o, ok := b.current[elementID{kind, key}]
	return o, ok
}

func (b *StyleBook) apply(key string, pick func(ElementStyle) Outline) []StyledElement {
	var changed []StyledElement
	for _, id := range b.order {
		if id.key != key {
			continue
		}
		o := pick(b.records[id])
		b.current[id] = o
		changed = append(changed, StyledElement{Kind: id.kind, Key: id.key, Outline: o})
	}
	return changed
}
