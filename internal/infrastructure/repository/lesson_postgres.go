package repository

import (
	"context"

	"studyplatform/internal/infrastructure/uow"
)

type LessonRepository struct {
	uow *uow.UnitOfWork
}

func NewLessonRepository(u *uow.UnitOfWork) *LessonRepository {
	return &LessonRepository{uow: u}
}

func (r *LessonRepository) Complete(ctx context.Context, userID, lessonID int64) error {
	_, err := r.uow.Exec(ctx, "CALL sp_complete_lesson($1,$2)", userID, lessonID)
	return err
}
