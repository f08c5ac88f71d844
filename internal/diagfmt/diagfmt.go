// Package diagfmt renders diag.Diagnostic values with file:line context
// and the offending source line, the way the teacher's parser errors
// package renders a *ParseError with a visual indicator. It works on the
// kind-tagged diagnostics from validator.ValidateDiagnostics — the
// validator itself never truncates or colors anything.
package diagfmt

import (
	"fmt"
	"strings"

	"github.com/regdir/gradval/internal/diag"
)

// Report renders every diagnostic against filename/source, truncating to
// maxShown entries (0 means unlimited) and noting how many were dropped,
// mirroring ParseErrorList.FormatErrors's "showing first N of M" header.
type Report struct {
	Filename string
	Source   string
	MaxShown int
}

// Format renders diagnostics in production order.
func (r Report) Format(diagnostics []diag.Diagnostic) string {
	if len(diagnostics) == 0 {
		return ""
	}

	var out strings.Builder
	shown := diagnostics
	if r.MaxShown > 0 && len(shown) > r.MaxShown {
		shown = shown[:r.MaxShown]
	}

	switch {
	case len(diagnostics) == 1:
		out.WriteString("Validation error:\n\n")
	case len(shown) == len(diagnostics):
		out.WriteString(fmt.Sprintf("Validation errors (%d):\n\n", len(diagnostics)))
	default:
		out.WriteString(fmt.Sprintf("Validation errors (showing first %d of %d):\n\n", len(shown), len(diagnostics)))
	}

	for i, d := range shown {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(r.formatOne(d))
	}

	if len(shown) < len(diagnostics) {
		out.WriteString(fmt.Sprintf("\n\033[33mNote:\033[0m %d additional diagnostics not shown.\n", len(diagnostics)-len(shown)))
	}

	return out.String()
}

func (r Report) formatOne(d diag.Diagnostic) string {
	var out strings.Builder
	out.WriteString(fmt.Sprintf("\033[31m%s\033[0m: %s\n", d.Kind, d.Message))
	out.WriteString(fmt.Sprintf("  \033[36m--> %s:%d\033[0m\n", r.Filename, d.Line))

	lines := strings.Split(r.Source, "\n")
	if d.Line > 0 && d.Line <= len(lines) {
		sourceLine := lines[d.Line-1]
		lineNumStr := fmt.Sprintf("%d", d.Line)
		out.WriteString(fmt.Sprintf("   \033[34m%s\033[0m | %s\n", lineNumStr, sourceLine))
	}

	return out.String()
}
