package model

// DateLayout is the wire format of task due dates and due-date filters.
const DateLayout = "2006-01-02"

// Task is a task as returned by the API.
type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	IsCompleted bool   `json:"isCompleted"`
	DueDate     string `json:"dueDate"`
	ProjectID   int64  `json:"projectId"`
	CreatedAt   string `json:"createdAt"`
}

// TaskInput is the body of a task create call.
type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"dueDate"`
}

// TaskUpdate is the body of a task update call.
type TaskUpdate struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"dueDate"`
	Completed   bool   `json:"completed"`
}

// TaskFilter narrows and paginates a project's task listing. A nil Completed
// means "any status"; empty strings mean "no constraint".
type TaskFilter struct {
	Page        int    `json:"page" validate:"gte=0"`
	Size        int    `json:"size" validate:"gte=1,lte=100"`
	Query       string `json:"query" validate:"max=255"`
	Completed   *bool  `json:"completed"`
	DueDateFrom string `json:"dueDateFrom" validate:"omitempty,datetime=2006-01-02"`
	DueDateTo   string `json:"dueDateTo" validate:"omitempty,datetime=2006-01-02"`
}

// Active reports whether any search or filter constraint is set.
func (f TaskFilter) Active() bool {
	return f.Query != "" || f.Completed != nil || f.DueDateFrom != "" || f.DueDateTo != ""
}
