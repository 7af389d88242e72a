package contract

import (
	"time"

	"github.com/alexanderramin/sitebook/internal/domain"
)

type DailyWork struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"project_id"`
	TaskID      *string `json:"task_id"`
	Date        string  `json:"date"`
	Volume      float64 `json:"volume"`
	Description string  `json:"description,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

func FromDailyWork(w *domain.DailyWork) DailyWork {
	return DailyWork{
		ID:          w.ID,
		ProjectID:   w.ProjectID,
		TaskID:      w.TaskID,
		Date:        w.Date.Format(dateLayout),
		Volume:      w.Volume,
		Description: w.Description,
		CreatedAt:   w.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func FromDailyWorks(works []*domain.DailyWork) []DailyWork {
	out := make([]DailyWork, len(works))
	for i, w := range works {
		out[i] = FromDailyWork(w)
	}
	return out
}

// DailyWorkChange is the payload of daily_work_created and daily_work_deleted.
type DailyWorkChange struct {
	Work       DailyWork `json:"work"`
	VolumeFact *float64  `json:"volume_fact"`
}

// MonthlyLine is one row of the monthly view. VolumePlan is the monthly
// override when PlanID is set, otherwise the task's own plan.
type MonthlyLine struct {
	Task       Task     `json:"task"`
	PlanID     *string  `json:"plan_id"`
	VolumePlan *float64 `json:"volume_plan"`
}

func FromMonthlyLines(lines []domain.MonthlyLine) []MonthlyLine {
	out := make([]MonthlyLine, len(lines))
	for i, l := range lines {
		out[i] = MonthlyLine{Task: FromTask(l.Task), PlanID: l.PlanID, VolumePlan: l.VolumePlan}
	}
	return out
}

type MonthlyPlan struct {
	ID         string  `json:"id"`
	ProjectID  string  `json:"project_id"`
	TaskID     *string `json:"task_id"`
	Month      string  `json:"month"`
	VolumePlan float64 `json:"volume_plan"`
}

func FromMonthlyPlan(p *domain.MonthlyPlan) MonthlyPlan {
	return MonthlyPlan{
		ID:         p.ID,
		ProjectID:  p.ProjectID,
		TaskID:     p.TaskID,
		Month:      p.Month.Format("2006-01"),
		VolumePlan: p.VolumePlan,
	}
}
