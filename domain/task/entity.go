package task

import "time"

// Column limits for the tasks table. The store does not enforce them;
// callers validate input before creating a task.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// Task is a single to-do record.
//
// ID is assigned by the database on insert and never reused. CreatedAt is set
// once on insert. Completed only ever moves from false to true.
type Task struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"size:100;not null" json:"title"`
	Description string     `gorm:"size:500" json:"description"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// TableName returns the table name for Task model.
func (Task) TableName() string {
	return "tasks"
}
