package vega

// Selection cardinalities.
const (
	SelectionSingle   = "single"
	SelectionMulti    = "multi"
	SelectionInterval = "interval"
)

// BindLegend binds a selection to the renderer's built-in legend widget.
const BindLegend = "legend"

// BindScales binds an interval selection to the view scales (pan/zoom).
const BindScales = "scales"

// Selection is a named interactive state declaration. The compiler only
// declares selections; the renderer evaluates them.
type Selection struct {
	Type      string   `json:"type"`
	On        string   `json:"on,omitempty"`
	Fields    []string `json:"fields,omitempty"`
	Encodings []string `json:"encodings,omitempty"`
	Empty     string   `json:"empty,omitempty"`
	Clear     string   `json:"clear,omitempty"`
	Nearest   bool     `json:"nearest,omitempty"`
	// Bind is either a widget binding, BindLegend or BindScales.
	Bind any `json:"bind,omitempty"`
	Init any `json:"init,omitempty"`
}

// Binding describes a UI input control a selection binds to.
type Binding struct {
	Input   string   `json:"input"`
	Options []string `json:"options,omitempty"`
	Name    string   `json:"name,omitempty"`
}

// BindingSelect returns a dropdown binding.
func BindingSelect(options []string, name string) *Binding {
	return &Binding{Input: "select", Options: options, Name: name}
}

// BindingCheckbox returns a checkbox binding.
func BindingCheckbox(name string) *Binding {
	return &Binding{Input: "checkbox", Name: name}
}
