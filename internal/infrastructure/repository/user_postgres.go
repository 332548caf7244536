package repository

import (
	"context"

	"studyplatform/internal/infrastructure/uow"
)

type UserRepository struct {
	uow *uow.UnitOfWork
}

func NewUserRepository(u *uow.UnitOfWork) *UserRepository {
	return &UserRepository{uow: u}
}

func (r *UserRepository) Enroll(ctx context.Context, userID, courseID int64) error {
	_, err := r.uow.Exec(ctx, "CALL sp_enroll_user($1,$2)", userID, courseID)
	return err
}

func (r *UserRepository) Enrollments(ctx context.Context, userID int64) ([]map[string]any, error) {
	rows, err := r.uow.Query(ctx, "SELECT * FROM v_user_enrollments WHERE user_id = $1", userID)
	if err != nil {
		return nil, err
	}
	return collectMaps(rows)
}
