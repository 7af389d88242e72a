package contract

// Topics group change types for subscriptions.
const (
	TopicTasks        = "tasks"
	TopicDailyWorks   = "daily_works"
	TopicMonthlyPlans = "monthly_plans"
	TopicProjects     = "projects"
)

// Change types broadcast to live clients.
const (
	TaskCreated      = "task_created"
	TaskUpdated      = "task_updated"
	TaskMoved        = "task_moved"
	TaskDeleted      = "task_deleted"
	TasksDeleted     = "tasks_deleted"
	TasksRenumbered  = "tasks_renumbered"
	ScheduleImported = "schedule_imported"
	ScheduleCleared  = "schedule_cleared"
	DailyWorkCreated = "daily_work_created"
	DailyWorkDeleted = "daily_work_deleted"
	MonthlyPlanSaved = "monthly_plan_saved"
	ProjectCreated   = "project_created"
	ProjectUpdated   = "project_updated"
	ProjectDeleted   = "project_deleted"
)

// AllTopics lists every topic; new live connections subscribe to all.
var AllTopics = []string{TopicTasks, TopicDailyWorks, TopicMonthlyPlans, TopicProjects}

// Change is a committed mutation to fan out.
type Change struct {
	Type      string `json:"type"`
	Topic     string `json:"event"`
	ProjectID string `json:"project_id"`
	Data      any    `json:"data"`
}

// Error codes of the API error body.
const (
	CodeNotFound       = "NOT_FOUND"
	CodeDuplicateCode  = "DUPLICATE_CODE"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeForbidden      = "FORBIDDEN"
	CodeInternal       = "INTERNAL"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
