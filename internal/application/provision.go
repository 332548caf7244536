package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyplatform/internal/domain"
	"studyplatform/internal/infrastructure/uow"
	"studyplatform/internal/pkg/logger"
)

const (
	upsertStudentSQL = `INSERT INTO users (email, password_hash, name, role)
		VALUES ($1, 'x', $2, 'student')
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`

	upsertTeacherSQL = `INSERT INTO users (email, password_hash, name, role)
		VALUES ('bench-teacher@example.com', 'x', 'Bench Teacher', 'teacher')
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`

	upsertCategorySQL = `INSERT INTO categories (name)
		VALUES ('BenchCat')
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`
)

// Provisioner tops up benchmark fixtures to a target count. Every operation
// is idempotent: rows are matched by their deterministic unique keys, only
// the deficit is created, and creation happens inside one transaction.
type Provisioner struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewProvisioner(pool *pgxpool.Pool, log *logger.Logger) *Provisioner {
	return &Provisioner{pool: pool, log: log.With("component", "provisioner")}
}

// EnsureUsers returns the ids of the first target bench students, creating
// the missing ones. Re-running with the same target creates nothing.
func (p *Provisioner) EnsureUsers(ctx context.Context, target int) ([]int64, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	ids, err := ensureUsers(ctx, uow.New(conn), target)
	if err != nil {
		return nil, err
	}
	p.log.Debug("users ensured", "target", target, "ids", len(ids))
	return ids, nil
}

// EnsureCourses returns the ids of the first target non-deleted courses,
// creating the missing ones under a shared bench teacher and category.
func (p *Provisioner) EnsureCourses(ctx context.Context, target int) ([]int64, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	ids, err := ensureCourses(ctx, uow.New(conn), target)
	if err != nil {
		return nil, err
	}
	p.log.Debug("courses ensured", "target", target, "ids", len(ids))
	return ids, nil
}

// EnsureBaseline guarantees one non-deleted course with at least one module
// and lessons lessons under it, and returns the first lessons lesson ids.
func (p *Provisioner) EnsureBaseline(ctx context.Context, lessons int) ([]int64, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	ids, err := ensureBaseline(ctx, uow.New(conn), lessons)
	if err != nil {
		return nil, err
	}
	p.log.Debug("baseline ensured", "lessons", lessons, "ids", len(ids))
	return ids, nil
}

func ensureUsers(ctx context.Context, u *uow.UnitOfWork, target int) ([]int64, error) {
	ids, err := queryIDs(ctx, u, "SELECT id FROM users ORDER BY id ASC")
	if err != nil {
		return nil, err
	}

	plan := planSeed(ids, target)
	if plan.deficit > 0 {
		if err := u.Begin(ctx); err != nil {
			return nil, err
		}
		for i := 0; i < plan.deficit; i++ {
			n := plan.ordinal(i)
			var id int64
			err := u.QueryRow(ctx, upsertStudentSQL,
				fmt.Sprintf("bench-student-%d@example.com", n),
				fmt.Sprintf("Bench Student %d", n),
			).Scan(&id)
			if err != nil {
				_ = u.Rollback(ctx)
				return nil, provisionErr(err)
			}
			if !containsID(ids, id) {
				ids = append(ids, id)
			}
		}
		if err := u.Commit(ctx); err != nil {
			_ = u.Rollback(ctx)
			return nil, provisionErr(err)
		}
	}
	return firstN(ids, target), nil
}

func ensureCourses(ctx context.Context, u *uow.UnitOfWork, target int) ([]int64, error) {
	var teacherID int64
	if err := u.QueryRow(ctx, upsertTeacherSQL).Scan(&teacherID); err != nil {
		return nil, err
	}

	var categoryID int64
	err := u.QueryRow(ctx, "SELECT id FROM categories WHERE name = $1", "BenchCat").Scan(&categoryID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = u.QueryRow(ctx, "INSERT INTO categories (name) VALUES ($1) RETURNING id", "BenchCat").Scan(&categoryID)
	}
	if err != nil {
		return nil, err
	}

	ids, err := queryIDs(ctx, u, "SELECT id FROM courses WHERE is_deleted = FALSE ORDER BY id ASC")
	if err != nil {
		return nil, err
	}

	plan := planSeed(ids, target)
	if plan.deficit > 0 {
		if err := u.Begin(ctx); err != nil {
			return nil, err
		}
		for i := 0; i < plan.deficit; i++ {
			var id int64
			err := u.QueryRow(ctx,
				"INSERT INTO courses (title, teacher_id, category_id, price) VALUES ($1, $2, $3, 0) RETURNING id",
				fmt.Sprintf("Bench Course %d", plan.ordinal(i)), teacherID, categoryID,
			).Scan(&id)
			if err != nil {
				_ = u.Rollback(ctx)
				return nil, provisionErr(err)
			}
			ids = append(ids, id)
		}
		if err := u.Commit(ctx); err != nil {
			_ = u.Rollback(ctx)
			return nil, provisionErr(err)
		}
	}
	return firstN(ids, target), nil
}

func ensureBaseline(ctx context.Context, u *uow.UnitOfWork, requiredLessons int) ([]int64, error) {
	// The first non-deleted course is the baseline anchor; a fresh
	// teacher/category/course chain is created only when none exists.
	var courseID int64
	err := u.QueryRow(ctx, "SELECT id FROM courses WHERE is_deleted = FALSE LIMIT 1").Scan(&courseID)
	if errors.Is(err, pgx.ErrNoRows) {
		var teacherID int64
		if err := u.QueryRow(ctx, upsertTeacherSQL).Scan(&teacherID); err != nil {
			return nil, err
		}
		var categoryID int64
		if err := u.QueryRow(ctx, upsertCategorySQL).Scan(&categoryID); err != nil {
			return nil, err
		}
		err = u.QueryRow(ctx,
			"INSERT INTO courses (title, teacher_id, category_id, price) VALUES ('Bench Course', $1, $2, 0) RETURNING id",
			teacherID, categoryID,
		).Scan(&courseID)
	}
	if err != nil {
		return nil, err
	}

	var moduleID int64
	err = u.QueryRow(ctx, "SELECT id FROM modules WHERE course_id = $1 LIMIT 1", courseID).Scan(&moduleID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = u.QueryRow(ctx,
			"INSERT INTO modules (course_id, title, order_index) VALUES ($1, 'Module 1', 1) RETURNING id",
			courseID,
		).Scan(&moduleID)
	}
	if err != nil {
		return nil, err
	}

	ids, err := queryIDs(ctx, u, "SELECT id FROM lessons WHERE module_id = $1 ORDER BY id ASC", moduleID)
	if err != nil {
		return nil, err
	}

	plan := planSeed(ids, requiredLessons)
	if plan.deficit > 0 {
		if err := u.Begin(ctx); err != nil {
			return nil, err
		}
		for i := 0; i < plan.deficit; i++ {
			var id int64
			err := u.QueryRow(ctx,
				"INSERT INTO lessons (module_id, title, content) VALUES ($1, $2, $3) RETURNING id",
				moduleID, fmt.Sprintf("Lesson %d", plan.ordinal(i)), "Bench content",
			).Scan(&id)
			if err != nil {
				_ = u.Rollback(ctx)
				return nil, provisionErr(err)
			}
			ids = append(ids, id)
		}
		if err := u.Commit(ctx); err != nil {
			_ = u.Rollback(ctx)
			return nil, provisionErr(err)
		}
	}
	return firstN(ids, requiredLessons), nil
}

func queryIDs(ctx context.Context, u *uow.UnitOfWork, sql string, args ...any) ([]int64, error) {
	rows, err := u.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func provisionErr(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrProvisioningFailed, err)
}
