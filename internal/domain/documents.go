package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document-store shapes for the append-mostly collections.

type CommentDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	LessonID  int64              `bson:"lessonId" json:"lesson_id"`
	UserID    int64              `bson:"userId" json:"user_id"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
}

type ActivityEventDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID   int64              `bson:"userId" json:"user_id"`
	CourseID *int64             `bson:"courseId,omitempty" json:"course_id,omitempty"`
	Type     string             `bson:"type" json:"type"`
	Metadata map[string]any     `bson:"metadata,omitempty" json:"metadata,omitempty"`
	TS       time.Time          `bson:"ts" json:"ts"`
}
