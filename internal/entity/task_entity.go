package entity

import "time"

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

type Task struct {
	Id          string       `json:"id" validate:"required"`
	Title       string       `json:"title" validate:"required"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status" validate:"oneof=pending in-progress completed"`
	Priority    TaskPriority `json:"priority" validate:"oneof=low medium high"`
	DueDate     *time.Time   `json:"dueDate"`
	CreatedAt   time.Time    `json:"createdAt" validate:"required"`
	FolderId    *string      `json:"folderId"`
	Assignee    string       `json:"assignee"`
}

func (t Task) ItemId() string { return t.Id }
func (t Task) Kind() ItemKind { return KindTask }
