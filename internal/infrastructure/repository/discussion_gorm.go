package repository

import (
	"context"

	"gorm.io/gorm"

	"studyplatform/internal/domain"
)

type DiscussionRepository struct {
	db *gorm.DB
}

func NewDiscussionRepository(db *gorm.DB) *DiscussionRepository {
	return &DiscussionRepository{db: db}
}

func (r *DiscussionRepository) ListByLesson(ctx context.Context, lessonID int64) ([]domain.Discussion, error) {
	var out []domain.Discussion
	err := r.db.WithContext(ctx).
		Where("lesson_id = ? AND is_deleted = FALSE", lessonID).
		Order("updated_at DESC").
		Limit(200).
		Find(&out).Error
	return out, err
}

func (r *DiscussionRepository) Create(ctx context.Context, d *domain.Discussion) error {
	return r.db.WithContext(ctx).
		Select("LessonID", "UserID", "Content").
		Create(d).Error
}
