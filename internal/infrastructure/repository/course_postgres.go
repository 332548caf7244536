package repository

import (
	"context"

	"studyplatform/internal/infrastructure/uow"
)

type CourseRepository struct {
	uow *uow.UnitOfWork
}

func NewCourseRepository(u *uow.UnitOfWork) *CourseRepository {
	return &CourseRepository{uow: u}
}

func (r *CourseRepository) Active(ctx context.Context) ([]map[string]any, error) {
	rows, err := r.uow.Query(ctx, "SELECT * FROM v_active_courses")
	if err != nil {
		return nil, err
	}
	return collectMaps(rows)
}

func (r *CourseRepository) Stats(ctx context.Context) ([]map[string]any, error) {
	rows, err := r.uow.Query(ctx, "SELECT * FROM v_course_stats")
	if err != nil {
		return nil, err
	}
	return collectMaps(rows)
}
