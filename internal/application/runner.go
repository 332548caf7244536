package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyplatform/internal/infrastructure/uow"
	"studyplatform/internal/pkg/logger"
)

type StepLog struct {
	Step   string `json:"step"`
	OK     bool   `json:"ok"`
	Detail any    `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
}

type RunReport struct {
	ID      string         `json:"id"`
	Commit  bool           `json:"commit"`
	Logs    []StepLog      `json:"logs"`
	Results map[string]any `json:"results,omitempty"`
}

type countRow struct {
	Table string `json:"table"`
	Count string `json:"count"`
}

// Runner drives the fixed diagnostic sequence: pre-state counts, view reads,
// then every business procedure in order, all inside one transaction. The
// transaction persists only when the caller asks for commit; the default
// posture is rollback, so a run is non-destructive end to end.
type Runner struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewRunner(pool *pgxpool.Pool, log *logger.Logger) *Runner {
	return &Runner{pool: pool, log: log.With("component", "runner")}
}

func (r *Runner) Run(ctx context.Context, commit bool) (*RunReport, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()
	return r.run(ctx, uow.New(conn), commit)
}

func (r *Runner) run(ctx context.Context, u *uow.UnitOfWork, commit bool) (*RunReport, error) {
	rep := &RunReport{
		ID:      uuid.NewString(),
		Commit:  commit,
		Logs:    []StepLog{},
		Results: map[string]any{},
	}

	if err := r.script(ctx, u, commit, rep); err != nil {
		// Best-effort rollback; a secondary failure must not mask the
		// original one.
		_ = u.Rollback(ctx)
		rep.Logs = append(rep.Logs, StepLog{Step: "error", OK: false, Error: err.Error()})
		r.log.Error("scripted run aborted", "run_id", rep.ID, "error", err)
		return rep, err
	}
	return rep, nil
}

func (r *Runner) script(ctx context.Context, u *uow.UnitOfWork, commit bool, rep *RunReport) error {
	ok := func(step string, detail any) {
		rep.Logs = append(rep.Logs, StepLog{Step: step, OK: true, Detail: detail})
	}
	skip := func(step, reason string) {
		rep.Logs = append(rep.Logs, StepLog{Step: step, OK: false, Error: reason})
	}

	if err := u.Begin(ctx); err != nil {
		return err
	}

	counts, err := r.preCounts(ctx, u)
	if err != nil {
		return fmt.Errorf("pre-counts: %w", err)
	}
	rep.Results["preCounts"] = counts
	ok("pre-counts", counts)

	active, err := queryMaps(ctx, u, "SELECT * FROM v_active_courses LIMIT 10")
	if err != nil {
		return fmt.Errorf("v_active_courses: %w", err)
	}
	rep.Results["v_active_courses"] = active
	ok("view:v_active_courses", map[string]any{"rows": len(active)})

	stats, err := queryMaps(ctx, u, "SELECT * FROM v_course_stats LIMIT 10")
	if err != nil {
		return fmt.Errorf("v_course_stats: %w", err)
	}
	rep.Results["v_course_stats"] = stats
	ok("view:v_course_stats", map[string]any{"rows": len(stats)})

	userID, err := optionalID(ctx, u, "SELECT id FROM users ORDER BY id LIMIT 1")
	if err != nil {
		return err
	}
	courseID, err := optionalID(ctx, u, "SELECT id FROM courses WHERE is_deleted = FALSE ORDER BY id LIMIT 1")
	if err != nil {
		return err
	}

	if userID != 0 && courseID != 0 {
		if err := Dispatch(ctx, u, ProcEnrollUser, args("userId", userID, "courseId", courseID)); err != nil {
			return err
		}
		ok("proc:sp_enroll_user", map[string]any{"userId": userID, "courseId": courseID})
	} else {
		skip("proc:sp_enroll_user", "missing userId/courseId")
	}

	// The setup inserts intentionally bypass the dispatch table: modules,
	// lessons and assignments have no server-side procedure.
	moduleCourseID := courseID
	if moduleCourseID == 0 {
		moduleCourseID = 1
	}
	var moduleID int64
	if err := u.QueryRow(ctx,
		"INSERT INTO modules (course_id, title, order_index) VALUES ($1,$2,$3) RETURNING id",
		moduleCourseID, "Test Module", 999,
	).Scan(&moduleID); err != nil {
		return fmt.Errorf("insert module: %w", err)
	}
	var lessonID int64
	if err := u.QueryRow(ctx,
		"INSERT INTO lessons (module_id, title, content) VALUES ($1,$2,$3) RETURNING id",
		moduleID, "Test Lesson", "...",
	).Scan(&lessonID); err != nil {
		return fmt.Errorf("insert lesson: %w", err)
	}
	ok("setup:module_lesson", map[string]any{"moduleId": moduleID, "lessonId": lessonID})

	if userID != 0 && lessonID != 0 {
		if err := Dispatch(ctx, u, ProcCompleteLesson, args("userId", userID, "lessonId", lessonID)); err != nil {
			return err
		}
		ok("proc:sp_complete_lesson", map[string]any{"userId": userID, "lessonId": lessonID})
	} else {
		skip("proc:sp_complete_lesson", "missing userId/lessonId")
	}

	var assignmentID int64
	if err := u.QueryRow(ctx,
		"INSERT INTO assignments (lesson_id, title, max_score) VALUES ($1,$2,$3) RETURNING id",
		lessonID, "Test Assignment", 100,
	).Scan(&assignmentID); err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}
	ok("setup:assignment", map[string]any{"assignmentId": assignmentID})

	var submissionID int64
	if assignmentID != 0 && userID != 0 {
		if err := Dispatch(ctx, u, ProcSubmitAssignment, args("assignmentId", assignmentID, "userId", userID, "content", "Test content")); err != nil {
			return err
		}
		submissionID, err = optionalID(ctx, u,
			"SELECT id FROM submissions WHERE assignment_id=$1 AND user_id=$2 ORDER BY id DESC LIMIT 1",
			assignmentID, userID)
		if err != nil {
			return err
		}
		ok("proc:sp_submit_assignment", map[string]any{"assignmentId": assignmentID, "submissionId": submissionID})
	} else {
		skip("proc:sp_submit_assignment", "missing assignmentId/userId")
	}

	if submissionID != 0 {
		if err := Dispatch(ctx, u, ProcGradeSubmission, args("submissionId", submissionID, "score", int64(90))); err != nil {
			return err
		}
		ok("proc:sp_grade_submission", map[string]any{"submissionId": submissionID})
	} else {
		skip("proc:sp_grade_submission", "missing submissionId")
	}

	if courseID != 0 && userID != 0 {
		if err := Dispatch(ctx, u, ProcAddReview, args("courseId", courseID, "userId", userID, "rating", int64(5), "comment", "Great course!")); err != nil {
			return err
		}
		ok("proc:sp_add_review", map[string]any{"courseId": courseID, "userId": userID})
	} else {
		skip("proc:sp_add_review", "missing courseId/userId")
	}

	if courseID != 0 && userID != 0 {
		if err := Dispatch(ctx, u, ProcProcessPayment, args("userId", userID, "courseId", courseID, "amount", 49.99)); err != nil {
			return err
		}
		ok("proc:sp_process_payment", map[string]any{"courseId": courseID, "userId": userID})
	} else {
		skip("proc:sp_process_payment", "missing courseId/userId")
	}

	if userID != 0 {
		if err := Dispatch(ctx, u, ProcNotify, args("userId", userID, "message", "Hello from the transaction runner")); err != nil {
			return err
		}
		ok("proc:sp_notify", map[string]any{"userId": userID})
	} else {
		skip("proc:sp_notify", "missing userId")
	}

	if courseID != 0 && userID != 0 {
		if err := Dispatch(ctx, u, ProcUpdateCourse, args("courseId", courseID, "title", "Updated Title (test)", "price", 9.99, "userId", userID)); err != nil {
			return err
		}
		ok("proc:sp_update_course", map[string]any{"courseId": courseID})
	} else {
		skip("proc:sp_update_course", "missing courseId/userId")
	}

	if courseID != 0 && userID != 0 {
		if err := Dispatch(ctx, u, ProcDeleteCourse, args("courseId", courseID, "userId", userID)); err != nil {
			return err
		}
		ok("proc:sp_delete_course", map[string]any{"courseId": courseID})
	} else {
		skip("proc:sp_delete_course", "missing courseId/userId")
	}

	viewUserID := userID
	if viewUserID == 0 {
		viewUserID = -1
	}
	enrollments, err := queryMaps(ctx, u,
		"SELECT * FROM v_user_enrollments WHERE user_id = $1 LIMIT 10", viewUserID)
	if err != nil {
		return fmt.Errorf("v_user_enrollments: %w", err)
	}
	rep.Results["v_user_enrollments"] = enrollments
	ok("view:v_user_enrollments", map[string]any{"rows": len(enrollments)})

	if commit {
		if err := u.Commit(ctx); err != nil {
			return err
		}
		ok("txn:commit", nil)
	} else {
		if err := u.Rollback(ctx); err != nil {
			return err
		}
		ok("txn:rollback", nil)
	}
	return nil
}

func (r *Runner) preCounts(ctx context.Context, u *uow.UnitOfWork) ([]countRow, error) {
	rows, err := u.Query(ctx, `
		SELECT 'users' AS table_name, COUNT(*)::text AS count FROM users
		UNION ALL
		SELECT 'courses', COUNT(*)::text FROM courses
		UNION ALL
		SELECT 'enrollments', COUNT(*)::text FROM enrollments`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []countRow
	for rows.Next() {
		var c countRow
		if err := rows.Scan(&c.Table, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// optionalID resolves a single id, returning 0 when the query matches nothing.
func optionalID(ctx context.Context, u *uow.UnitOfWork, sql string, qargs ...any) (int64, error) {
	var id int64
	err := u.QueryRow(ctx, sql, qargs...).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func queryMaps(ctx context.Context, u *uow.UnitOfWork, sql string, qargs ...any) ([]map[string]any, error) {
	rows, err := u.Query(ctx, sql, qargs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	out := []map[string]any{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(map[string]any, len(fields))
		for i, fd := range fields {
			if i < len(values) {
				row[fd.Name] = values[i]
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func args(kv ...any) map[string]any {
	out := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i].(string)] = kv[i+1]
	}
	return out
}
