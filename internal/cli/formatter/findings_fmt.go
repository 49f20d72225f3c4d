package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/xerkit/internal/importer"
)

// FormatFindings lists structural problems, or confirms there are none.
func FormatFindings(path string, findings []importer.Finding) string {
	if len(findings) == 0 {
		return StyleGreen.Render("✔ "+path) + Dim(" no structural problems") + "\n"
	}
	var b strings.Builder
	b.WriteString(StyleRed.Render(fmt.Sprintf("✖ %s", path)) + Dim(fmt.Sprintf(" %d problem(s)", len(findings))) + "\n")
	for _, f := range findings {
		fmt.Fprintf(&b, "  %s %s\n", Dim(string(f.Code)), f.Error())
	}
	return b.String()
}
