package formatter

import (
	"github.com/alexanderramin/sitebook/internal/domain"
)

// FormatProjectList renders projects in a bordered table.
func FormatProjectList(projects []*domain.Project) string {
	if len(projects) == 0 {
		return Dim("No projects yet. Create one with: sitebook project create --name <name>") + "\n"
	}
	headers := []string{"ID", "NAME", "STATUS", "UPDATED"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			Dim(p.DisplayID()),
			Bold(p.Name),
			StatusPill(p.Status),
			p.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	return RenderBox("Projects", RenderTable(headers, rows))
}
