package models

import (
	"time"
)

// TaskCategory represents the board column a task belongs to
type TaskCategory string

const (
	CategoryToDo       TaskCategory = "To Do"
	CategoryInProgress TaskCategory = "In Progress"
	CategoryReview     TaskCategory = "Review"
	CategoryCompleted  TaskCategory = "Completed"
)

// AllCategories lists every category in display order
var AllCategories = []TaskCategory{
	CategoryToDo,
	CategoryInProgress,
	CategoryReview,
	CategoryCompleted,
}

// Valid reports whether c is one of the fixed categories
func (c TaskCategory) Valid() bool {
	switch c {
	case CategoryToDo, CategoryInProgress, CategoryReview, CategoryCompleted:
		return true
	}
	return false
}

// Task represents a calendar task spanning one or more whole days.
// StartDate and EndDate are kept at midnight; EndDate is never before StartDate.
type Task struct {
	ID        string       `json:"id" gorm:"primaryKey"`
	Name      string       `json:"name" gorm:"not null"`
	Category  TaskCategory `json:"category" gorm:"not null;default:'To Do'"`
	StartDate time.Time    `json:"startDate" gorm:"column:start_date;index"`
	EndDate   time.Time    `json:"endDate" gorm:"column:end_date"`
	UserID    string       `json:"-" gorm:"column:user_id;index"`
	CreatedAt time.Time    `json:"-"`
	UpdatedAt time.Time    `json:"-"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}
