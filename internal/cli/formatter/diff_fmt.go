package formatter

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/alexanderramin/xerkit/internal/snapshot"
)

func changeStyle(op string) func(...string) string {
	switch op {
	case "add":
		return StyleGreen.Render
	case "remove":
		return StyleRed.Render
	default:
		return StyleYellow.Render
	}
}

// FormatChanges renders snapshot differences grouped by file.
func FormatChanges(changes map[string][]snapshot.Change) string {
	if len(changes) == 0 {
		return StyleGreen.Render("✔ snapshots match") + "\n"
	}
	var b strings.Builder
	for _, file := range slices.Sorted(maps.Keys(changes)) {
		b.WriteString(Bold(file) + "\n")
		for _, c := range changes[file] {
			fmt.Fprintf(&b, "  %s\n", changeStyle(c.Op)(c.String()))
		}
	}
	return b.String()
}
