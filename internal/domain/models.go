package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Relational rows the service reads and writes outside the procedure layer.
// The wider schema (users, courses, enrollments, the sp_* procedures and v_*
// views) is owned by the database; only the shapes below are mapped as models.

type Discussion struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	LessonID  int64     `gorm:"column:lesson_id" json:"lesson_id"`
	UserID    int64     `gorm:"column:user_id" json:"user_id"`
	Content   string    `json:"content"`
	IsDeleted bool      `gorm:"column:is_deleted" json:"-"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updated_at"`
}

func (Discussion) TableName() string {
	return "discussions"
}

type ActivityEvent struct {
	ID       int64          `gorm:"primaryKey" json:"id"`
	UserID   int64          `gorm:"column:user_id" json:"user_id"`
	CourseID *int64         `gorm:"column:course_id" json:"course_id,omitempty"`
	Type     string         `json:"type"`
	Metadata datatypes.JSON `json:"metadata,omitempty"`
	TS       time.Time      `gorm:"column:ts" json:"ts"`
}

func (ActivityEvent) TableName() string {
	return "activity_events"
}

// EventFilter narrows activity event reads. Nil fields are not applied.
type EventFilter struct {
	UserID   *int64
	CourseID *int64
	Type     string
	Since    *time.Time
	Until    *time.Time
}
