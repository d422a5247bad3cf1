// Package dataset provides the ordered tabular frame the chart compiler
// consumes. A Frame keeps its columns in declaration order and its distinct
// values in encounter order, both of which the compiler relies on for
// deterministic output.
package dataset
