package vega

// Transform is one step of a unit's sequential transform pipeline. Exactly
// one of Filter or Calculate is set. Filter is either a raw expression string
// or a *SelectionRef.
type Transform struct {
	Filter    any    `json:"filter,omitempty"`
	Calculate string `json:"calculate,omitempty"`
	As        string `json:"as,omitempty"`
}

// SelectionRef is a filter predicate referencing a named selection.
type SelectionRef struct {
	Selection string `json:"selection"`
}
