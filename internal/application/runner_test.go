package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyplatform/internal/infrastructure/uow"
	"studyplatform/internal/infrastructure/uow/uowtest"
	"studyplatform/internal/pkg/logger"
)

func scriptedConn() *uowtest.FakeConn {
	conn := uowtest.NewFakeConn()
	conn.On("COUNT(*)::text", []string{"table_name", "count"}, [][]any{
		{"users", "3"}, {"courses", "2"}, {"enrollments", "1"},
	})
	conn.On("v_active_courses", []string{"id", "title"}, [][]any{{int64(2), "Course"}})
	conn.On("v_course_stats", []string{"course_id", "students"}, [][]any{})
	conn.On("SELECT id FROM users ORDER BY id LIMIT 1", []string{"id"}, [][]any{{int64(1)}})
	conn.On("SELECT id FROM courses WHERE is_deleted = FALSE ORDER BY id LIMIT 1", []string{"id"}, [][]any{{int64(2)}})
	conn.On("INSERT INTO modules", []string{"id"}, [][]any{{int64(10)}})
	conn.On("INSERT INTO lessons", []string{"id"}, [][]any{{int64(11)}})
	conn.On("INSERT INTO assignments", []string{"id"}, [][]any{{int64(12)}})
	conn.On("FROM submissions", []string{"id"}, [][]any{{int64(13)}})
	conn.On("v_user_enrollments", []string{"course_id"}, [][]any{})
	return conn
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	require.NoError(t, err)
	return log
}

func stepNames(rep *RunReport) []string {
	out := make([]string, 0, len(rep.Logs))
	for _, l := range rep.Logs {
		out = append(out, l.Step)
	}
	return out
}

func TestRunnerRollsBackByDefault(t *testing.T) {
	conn := scriptedConn()
	r := NewRunner(nil, testLogger(t))

	rep, err := r.run(context.Background(), uow.New(conn), false)
	require.NoError(t, err)

	stmts := conn.Statements()
	assert.Equal(t, "BEGIN", stmts[0])
	assert.Equal(t, "ROLLBACK", stmts[len(stmts)-1])
	assert.NotContains(t, stmts, "COMMIT")
	assert.Contains(t, stepNames(rep), "txn:rollback")
}

func TestRunnerExecutesEveryProcedureInOrder(t *testing.T) {
	conn := scriptedConn()
	r := NewRunner(nil, testLogger(t))

	rep, err := r.run(context.Background(), uow.New(conn), true)
	require.NoError(t, err)

	var calls []string
	for _, s := range conn.Statements() {
		if strings.HasPrefix(s, "CALL ") {
			calls = append(calls, s)
		}
	}
	assert.Equal(t, []string{
		"CALL sp_enroll_user($1,$2)",
		"CALL sp_complete_lesson($1,$2)",
		"CALL sp_submit_assignment($1,$2,$3)",
		"CALL sp_grade_submission($1,$2)",
		"CALL sp_add_review($1,$2,$3,$4)",
		"CALL sp_process_payment($1,$2,$3)",
		"CALL sp_notify($1,$2)",
		"CALL sp_update_course($1,$2,$3,$4)",
		"CALL sp_delete_course($1,$2)",
	}, calls)

	for _, l := range rep.Logs {
		assert.True(t, l.OK, "step %s should succeed", l.Step)
	}
	assert.Equal(t, "txn:commit", rep.Logs[len(rep.Logs)-1].Step)
}

func TestRunnerSkipsProcedureStepsWithoutPrerequisites(t *testing.T) {
	conn := uowtest.NewFakeConn()
	conn.On("COUNT(*)::text", []string{"table_name", "count"}, [][]any{})
	conn.On("INSERT INTO modules", []string{"id"}, [][]any{{int64(10)}})
	conn.On("INSERT INTO lessons", []string{"id"}, [][]any{{int64(11)}})
	conn.On("INSERT INTO assignments", []string{"id"}, [][]any{{int64(12)}})
	r := NewRunner(nil, testLogger(t))

	rep, err := r.run(context.Background(), uow.New(conn), false)
	require.NoError(t, err)

	// No users or courses exist: no procedure is attempted.
	for _, s := range conn.Statements() {
		assert.False(t, strings.HasPrefix(s, "CALL "), "unexpected procedure call %q", s)
	}

	byStep := map[string]StepLog{}
	for _, l := range rep.Logs {
		byStep[l.Step] = l
	}
	assert.False(t, byStep["proc:sp_enroll_user"].OK)
	assert.NotEmpty(t, byStep["proc:sp_enroll_user"].Error)
	// Lesson completion has a lesson but no user.
	assert.False(t, byStep["proc:sp_complete_lesson"].OK)
	assert.True(t, byStep["txn:rollback"].OK)
}

func TestRunnerRollsBackOnFailureAndReportsIt(t *testing.T) {
	conn := scriptedConn()
	boom := errors.New("payment declined")
	conn.FailOn("CALL sp_process_payment", boom)
	r := NewRunner(nil, testLogger(t))

	rep, err := r.run(context.Background(), uow.New(conn), true)
	require.ErrorIs(t, err, boom)

	stmts := conn.Statements()
	assert.Equal(t, "ROLLBACK", stmts[len(stmts)-1])
	assert.NotContains(t, stmts, "COMMIT")

	last := rep.Logs[len(rep.Logs)-1]
	assert.Equal(t, "error", last.Step)
	assert.False(t, last.OK)
	assert.Contains(t, last.Error, "payment declined")
}
