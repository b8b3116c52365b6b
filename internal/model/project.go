package model

// Project is a project as returned by the API, with task progress figures.
type Project struct {
	ID                 int64   `json:"id"`
	Title              string  `json:"title"`
	Description        string  `json:"description,omitempty"`
	CreatedAt          string  `json:"createdAt"`
	TotalTasks         int     `json:"totalTasks"`
	CompletedTasks     int     `json:"completedTasks"`
	ProgressPercentage float64 `json:"progressPercentage"`
}

// ProjectInput is the body of project create and update calls.
type ProjectInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}
