package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one schedule row in a tree display.
type TreeItem struct {
	Code    string
	Title   string
	Level   int
	IsLast  bool
	Section bool
	Custom  bool
	Detail  string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// MarkLast sets IsLast on every item that has no later sibling at its
// level before the branch closes.
func MarkLast(items []TreeItem) {
	for i := range items {
		items[i].IsLast = true
		for j := i + 1; j < len(items); j++ {
			if items[j].Level < items[i].Level {
				break
			}
			if items[j].Level == items[i].Level {
				items[i].IsLast = false
				break
			}
		}
	}
}

// RenderTree draws items with box connectors by level. Sections are
// highlighted, custom rows carry a trailing "*", and details are aligned
// in a right-hand column.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	widest := 0
	for i, item := range items {
		var prefix strings.Builder
		if item.Level > 0 {
			prefix.WriteString(strings.Repeat(treePipe, item.Level-1))
			if item.IsLast {
				prefix.WriteString(treeCorner)
			} else {
				prefix.WriteString(treeBranch)
			}
		}

		title := StyleFg.Render(item.Title)
		if item.Section {
			title = StyleSection.Render(item.Title)
		}
		content := Dim(prefix.String()) + StyleBlue.Render(item.Code) + "  " + title
		if item.Custom {
			content += StylePurple.Render(" *")
		}
		contents[i] = content
		widest = max(widest, lipgloss.Width(content))
	}

	var b strings.Builder
	for i, item := range items {
		b.WriteString(contents[i])
		if item.Detail != "" {
			pad := widest - lipgloss.Width(contents[i])
			b.WriteString(strings.Repeat(" ", pad+2) + Dim("[ ") + item.Detail + Dim(" ]"))
		}
		b.WriteString("\n")
	}
	return b.String()
}
