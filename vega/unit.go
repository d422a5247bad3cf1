package vega

// Unit is a single view: data, mark, encoding, transforms and selections.
type Unit struct {
	Name      string                `json:"name,omitempty"`
	Data      *Data                 `json:"data,omitempty"`
	Mark      *MarkDef              `json:"mark,omitempty"`
	Encoding  *Encoding             `json:"encoding,omitempty"`
	Transform []Transform           `json:"transform,omitempty"`
	Selection map[string]*Selection `json:"selection,omitempty"`
}

// MarkDef is a mark type plus its visual properties.
type MarkDef struct {
	Type        string  `json:"type"`
	Size        *int    `json:"size,omitempty"`
	Filled      bool    `json:"filled,omitempty"`
	Shape       string  `json:"shape,omitempty"`
	Align       string  `json:"align,omitempty"`
	DX          int     `json:"dx,omitempty"`
	DY          int     `json:"dy,omitempty"`
	Font        string  `json:"font,omitempty"`
	FontSize    int     `json:"fontSize,omitempty"`
	FontWeight  int     `json:"fontWeight,omitempty"`
	StrokeDash  []int   `json:"strokeDash,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Color       string  `json:"color,omitempty"`
	Height      int     `json:"height,omitempty"`
	Width       int     `json:"width,omitempty"`
}

// Size returns a *int for MarkDef.Size; zero is a meaningful mark size in the
// grammar (invisible hit-target marks), hence the pointer.
func Size(n int) *int { return &n }

// NewUnit returns a base unit. Layers are derived from it via the Mark*
// constructors, which clone.
func NewUnit() *Unit { return &Unit{} }

// Clone returns a copy sharing no mutable containers with the receiver.
// Channel and selection definitions themselves are shared; builders replace
// them rather than mutating in place.
func (u *Unit) Clone() *Unit {
	c := *u
	if u.Encoding != nil {
		enc := *u.Encoding
		c.Encoding = &enc
	}
	if u.Transform != nil {
		c.Transform = append([]Transform(nil), u.Transform...)
	}
	if u.Selection != nil {
		c.Selection = make(map[string]*Selection, len(u.Selection))
		for k, v := range u.Selection {
			c.Selection[k] = v
		}
	}
	return &c
}

func (u *Unit) mark(m *MarkDef) *Unit {
	c := u.Clone()
	c.Mark = m
	return c
}

// MarkLine derives a line layer from the unit.
func (u *Unit) MarkLine(m MarkDef) *Unit {
	m.Type = "line"
	return u.mark(&m)
}

// MarkPoint derives a point layer from the unit.
func (u *Unit) MarkPoint(m MarkDef) *Unit {
	m.Type = "point"
	return u.mark(&m)
}

// MarkText derives a text layer from the unit.
func (u *Unit) MarkText(m MarkDef) *Unit {
	m.Type = "text"
	return u.mark(&m)
}

// MarkRule derives a rule layer from the unit.
func (u *Unit) MarkRule(m MarkDef) *Unit {
	m.Type = "rule"
	return u.mark(&m)
}

// MarkImage derives an image layer from the unit.
func (u *Unit) MarkImage(m MarkDef) *Unit {
	m.Type = "image"
	return u.mark(&m)
}

// EncOpt assigns one channel of an encoding.
type EncOpt func(*Encoding)

// EncX through EncURL bind a channel definition to its encoding slot.
func EncX(c *Channel) EncOpt       { return func(e *Encoding) { e.X = c } }
func EncY(c *Channel) EncOpt       { return func(e *Encoding) { e.Y = c } }
func EncColor(c *Channel) EncOpt   { return func(e *Encoding) { e.Color = c } }
func EncDetail(c *Channel) EncOpt  { return func(e *Encoding) { e.Detail = c } }
func EncOpacity(c *Channel) EncOpt { return func(e *Encoding) { e.Opacity = c } }
func EncText(c *Channel) EncOpt    { return func(e *Encoding) { e.Text = c } }
func EncURL(c *Channel) EncOpt     { return func(e *Encoding) { e.URL = c } }

// Encode overlays the given channels onto the unit's encoding, preserving
// channels the options do not touch.
func (u *Unit) Encode(opts ...EncOpt) *Unit {
	if u.Encoding == nil {
		u.Encoding = &Encoding{}
	}
	for _, opt := range opts {
		opt(u.Encoding)
	}
	return u
}

// Named sets the unit name.
func (u *Unit) Named(name string) *Unit {
	u.Name = name
	return u
}

// WithData attaches an inline data source to the unit.
func (u *Unit) WithData(d *Data) *Unit {
	u.Data = d
	return u
}

// TransformFilter appends an expression filter transform.
func (u *Unit) TransformFilter(expr string) *Unit {
	u.Transform = append(u.Transform, Transform{Filter: expr})
	return u
}

// TransformFilterSelection appends a filter referencing a named selection.
func (u *Unit) TransformFilterSelection(name string) *Unit {
	u.Transform = append(u.Transform, Transform{Filter: &SelectionRef{Selection: name}})
	return u
}

// TransformCalculate appends a calculate transform deriving field as from expr.
func (u *Unit) TransformCalculate(as, expr string) *Unit {
	u.Transform = append(u.Transform, Transform{Calculate: expr, As: as})
	return u
}

// AddSelection declares a named selection on the unit.
func (u *Unit) AddSelection(name string, s *Selection) *Unit {
	if u.Selection == nil {
		u.Selection = map[string]*Selection{}
	}
	u.Selection[name] = s
	return u
}
