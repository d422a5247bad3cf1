package vega

// Package vega models the subset of the Vega-Lite grammar that the chartlib
// compiler emits: unit views with marks, encodings, transforms and selection
// declarations, plus layered/faceted/concatenated composition and global
// config.
//
// Design policy:
// - Plain structs with omitempty json tags; the document is the API.
// - Fluent builders mutate and return the receiver; Mark* constructors clone
//   the base unit so one base can seed many layers.
// - No grammar validation happens here; the downstream renderer owns the
//   schema.
