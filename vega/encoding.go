package vega

// Field type shorthands used throughout the grammar.
const (
	Quantitative = "quantitative"
	Nominal      = "nominal"
)

// Encoding maps visual channels to fields, constants or conditions.
type Encoding struct {
	X       *Channel `json:"x,omitempty"`
	Y       *Channel `json:"y,omitempty"`
	Color   *Channel `json:"color,omitempty"`
	Detail  *Channel `json:"detail,omitempty"`
	Opacity *Channel `json:"opacity,omitempty"`
	Text    *Channel `json:"text,omitempty"`
	URL     *Channel `json:"url,omitempty"`
}

// Channel is a single encoding channel definition. Exactly one of Field or
// Value is normally set; Condition may accompany either.
type Channel struct {
	Field     string     `json:"field,omitempty"`
	Type      string     `json:"type,omitempty"`
	Aggregate string     `json:"aggregate,omitempty"`
	Value     any        `json:"value,omitempty"`
	Condition *Condition `json:"condition,omitempty"`
	Scale     *Scale     `json:"scale,omitempty"`
	Axis      *Axis      `json:"axis,omitempty"`
	Title     string     `json:"title,omitempty"`

	// noLegend distinguishes "legend": null (suppress the built-in widget)
	// from an absent legend key.
	noLegend bool
}

// Condition is the test branch of a conditional channel. Test carries a raw
// expression; Selection references a named selection instead.
type Condition struct {
	Test      string `json:"test,omitempty"`
	Selection string `json:"selection,omitempty"`
	Value     any    `json:"value,omitempty"`
	Field     string `json:"field,omitempty"`
	Type      string `json:"type,omitempty"`
}

// Scale configures the channel scale.
type Scale struct {
	Type   string `json:"type,omitempty"`
	Domain []any  `json:"domain,omitempty"`
	Range  []any  `json:"range,omitempty"`
}

// Axis configures the channel axis. Pointers keep "explicitly false" distinct
// from "unset".
type Axis struct {
	Grid   *bool  `json:"grid,omitempty"`
	Domain *bool  `json:"domain,omitempty"`
	Ticks  *bool  `json:"ticks,omitempty"`
	Labels *bool  `json:"labels,omitempty"`
	Orient string `json:"orient,omitempty"`
}

// Field returns a field-backed channel.
func Field(name, typ string) *Channel {
	return &Channel{Field: name, Type: typ}
}

// Value returns a constant-valued channel.
func Value(v any) *Channel {
	return &Channel{Value: v}
}

// Cond returns a channel whose value is cond when test holds and otherwise.
func Cond(test string, ifTrue, otherwise any) *Channel {
	return &Channel{Condition: &Condition{Test: test, Value: ifTrue}, Value: otherwise}
}

// CondSelection returns a channel switching on a named selection: the field
// branch applies inside the selection, the constant branch outside.
func CondSelection(selection, field, typ string, otherwise any) *Channel {
	return &Channel{Condition: &Condition{Selection: selection, Field: field, Type: typ}, Value: otherwise}
}

// CondSelectionValue returns a constant/constant conditional on a selection.
func CondSelectionValue(selection string, ifTrue, otherwise any) *Channel {
	return &Channel{Condition: &Condition{Selection: selection, Value: ifTrue}, Value: otherwise}
}

// WithAggregate sets the channel aggregate (e.g. "max").
func (c *Channel) WithAggregate(agg string) *Channel {
	c.Aggregate = agg
	return c
}

// WithScale sets the channel scale.
func (c *Channel) WithScale(s *Scale) *Channel {
	c.Scale = s
	return c
}

// WithAxis sets the channel axis.
func (c *Channel) WithAxis(a *Axis) *Channel {
	c.Axis = a
	return c
}

// WithTitle sets the channel title.
func (c *Channel) WithTitle(t string) *Channel {
	c.Title = t
	return c
}

// NoLegend disables the built-in legend for this channel.
func (c *Channel) NoLegend() *Channel {
	c.noLegend = true
	return c
}

// MarshalJSON emits "legend": null only when NoLegend was requested.
func (c *Channel) MarshalJSON() ([]byte, error) {
	type alias Channel
	if c.noLegend {
		return marshal(struct {
			alias
			Legend any `json:"legend"`
		}{alias: alias(*c), Legend: nil})
	}
	return marshal(alias(*c))
}

// BoolRef exposes a *bool for axis flags.
func BoolRef(b bool) *bool { return &b }
