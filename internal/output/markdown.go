package output

import (
	"fmt"
	"strings"

	"archmap/internal/shared/util"
)

// Markdown renders the human-readable report: the summary text followed
// by a detailed findings section.
func Markdown(doc *Document) string {
	var b strings.Builder

	if doc.Summary != "" {
		b.WriteString(doc.Summary)
		if !strings.HasSuffix(doc.Summary, "\n") {
			b.WriteString("\n")
		}
	} else {
		fmt.Fprintf(&b, "# %s\n", doc.Title)
	}

	if len(doc.Smells) > 0 {
		b.WriteString("\n## Findings\n")
		for _, f := range doc.Smells {
			fmt.Fprintf(&b, "\n### %s\n", f.Title)
			fmt.Fprintf(&b, "- Severity: %s\n", f.Severity)
			if len(f.Nodes) > 0 {
				fmt.Fprintf(&b, "- Nodes: %s\n", strings.Join(f.Nodes, ", "))
			}
			if f.Metric != "" {
				fmt.Fprintf(&b, "- Metric: %s\n", f.Metric)
			}
			if f.Description != "" {
				fmt.Fprintf(&b, "\n%s\n", f.Description)
			}
			if f.Fix != "" {
				fmt.Fprintf(&b, "\n**Fix:** %s\n", f.Fix)
			}
		}
	}

	fmt.Fprintf(&b, "\n---\nGenerated %s\n", doc.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	return b.String()
}

// WriteMarkdown writes the report to path, creating parent directories.
func WriteMarkdown(path string, doc *Document) error {
	return util.WriteStringWithDirs(path, Markdown(doc), 0o644)
}
