package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/sitebook/internal/contract"
	"github.com/alexanderramin/sitebook/internal/domain"
)

// FormatSchedule renders a project's tasks, already in schedule order, as
// a tree with planned volume and progress per work row.
func FormatSchedule(projectName string, tasks []*domain.Task) string {
	if len(tasks) == 0 {
		return Header(projectName) + "\n" + Dim("Schedule is empty.") + "\n"
	}
	items := make([]TreeItem, len(tasks))
	for i, t := range tasks {
		items[i] = TreeItem{
			Code:    t.Code,
			Title:   t.Name,
			Level:   t.Level,
			Section: t.IsSection,
			Custom:  t.IsCustom,
			Detail:  taskDetail(t),
		}
	}
	MarkLast(items)
	return Header(projectName) + "\n" + RenderTree(items)
}

func taskDetail(t *domain.Task) string {
	if t.IsSection {
		return ""
	}
	if t.VolumePlan == nil {
		return t.Unit
	}
	progress := t.Progress()
	return fmt.Sprintf("%s %s %s", FormatVolume(*t.VolumePlan), t.Unit,
		ProgressStyle(progress).Render(FormatPercent(progress)))
}

// FormatPlacement summarises a create or move.
func FormatPlacement(verb string, t *domain.Task, renumbered int) string {
	msg := fmt.Sprintf("%s %s %s at position %d", verb, StyleBlue.Render(t.Code), Bold(t.Name), t.SortOrder)
	if renumbered > 0 {
		msg += Dim(fmt.Sprintf(" (renumbered %d other rows)", renumbered))
	}
	return msg + "\n"
}

// FormatImportResult summarises an import and lists skipped rows.
func FormatImportResult(res *contract.ImportResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s imported %d tasks", StyleGreen.Render("✔"), res.Processed)
	if res.Replaced > 0 {
		fmt.Fprintf(&b, ", replaced %d", res.Replaced)
	}
	if res.DroppedCustom > 0 {
		fmt.Fprintf(&b, " (%s)", StyleYellow.Render(fmt.Sprintf("%d custom rows dropped", res.DroppedCustom)))
	}
	b.WriteString("\n")

	if len(res.Skipped) == 0 {
		return b.String()
	}
	fmt.Fprintf(&b, "%s skipped %d rows:\n", StyleYellow.Render("!"), len(res.Skipped))
	rows := make([][]string, len(res.Skipped))
	for i, e := range res.Skipped {
		rows[i] = []string{fmt.Sprint(e.Row), e.Code, e.Reason}
	}
	b.WriteString(RenderTable([]string{"ROW", "CODE", "REASON"}, rows))
	return b.String()
}
