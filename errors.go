package chartlib

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidConfig     = "invalid_config"
	CodeMissingColumn     = "missing_column"
	CodeSelectionRequired = "selection_required"
	CodeMarksRequired     = "marks_required"
	CodeColormapMismatch  = "colormap_mismatch"
	CodeLegendCapacity    = "legend_capacity"
	CodeEmojiCapacity     = "emoji_capacity"
	CodeUnknownEmoji      = "unknown_emoji"
	CodePaletteExhausted  = "palette_exhausted"
)

// Issue represents a single compile failure.
type Issue struct {
	Code    string // One of the codes listed above.
	Message string
	// Key optionally names the config field or column the issue refers to.
	Key string
}

// Issues is a collection of compile errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		fmt.Fprintf(b, "%s: %s", it.Code, it.Message)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

func issuef(code, format string, a ...any) Issues {
	return Issues{{Code: code, Message: fmt.Sprintf(format, a...)}}
}
