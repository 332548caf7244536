package repository

import (
	"context"

	"gorm.io/gorm"

	"studyplatform/internal/domain"
)

type ActivityEventRepository struct {
	db *gorm.DB
}

func NewActivityEventRepository(db *gorm.DB) *ActivityEventRepository {
	return &ActivityEventRepository{db: db}
}

func (r *ActivityEventRepository) List(ctx context.Context, f domain.EventFilter) ([]domain.ActivityEvent, error) {
	q := r.db.WithContext(ctx).Model(&domain.ActivityEvent{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.CourseID != nil {
		q = q.Where("course_id = ?", *f.CourseID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Since != nil {
		q = q.Where("ts >= ?", *f.Since)
	}
	if f.Until != nil {
		q = q.Where("ts <= ?", *f.Until)
	}

	var out []domain.ActivityEvent
	err := q.Order("ts DESC").Limit(500).Find(&out).Error
	return out, err
}

func (r *ActivityEventRepository) Create(ctx context.Context, e *domain.ActivityEvent) error {
	return r.db.WithContext(ctx).
		Select("UserID", "CourseID", "Type", "Metadata").
		Create(e).Error
}
