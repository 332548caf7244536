package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyplatform/internal/domain"
	"studyplatform/internal/infrastructure/uow"
	"studyplatform/internal/infrastructure/uow/uowtest"
)

func TestDispatchUnknownProcedure(t *testing.T) {
	conn := uowtest.NewFakeConn()
	err := Dispatch(context.Background(), uow.New(conn), "sp_does_not_exist", map[string]any{})

	assert.ErrorIs(t, err, domain.ErrUnknownProcedure)
	assert.Empty(t, conn.Statements())
}

func TestDispatchNameIsCaseInsensitive(t *testing.T) {
	conn := uowtest.NewFakeConn()
	err := Dispatch(context.Background(), uow.New(conn), "SP_ENROLL_USER", map[string]any{
		"userId":   float64(1),
		"courseId": float64(2),
	})

	require.NoError(t, err)
	require.Len(t, conn.Log, 1)
	assert.Equal(t, "CALL sp_enroll_user($1,$2)", conn.Log[0].SQL)
	assert.Equal(t, []any{int64(1), int64(2)}, conn.Log[0].Args)
}

func TestDispatchInvalidArgumentIssuesNoStatements(t *testing.T) {
	cases := []struct {
		name string
		proc string
		body map[string]any
	}{
		{"non-numeric userId", ProcEnrollUser, map[string]any{"userId": "abc", "courseId": float64(2)}},
		{"fractional userId", ProcEnrollUser, map[string]any{"userId": 1.5, "courseId": float64(2)}},
		{"fractional string lessonId", ProcCompleteLesson, map[string]any{"userId": float64(1), "lessonId": "3.7"}},
		{"missing courseId", ProcEnrollUser, map[string]any{"userId": float64(1)}},
		{"empty content", ProcSubmitAssignment, map[string]any{"assignmentId": float64(1), "userId": float64(2), "content": ""}},
		{"empty message", ProcNotify, map[string]any{"userId": float64(1), "message": ""}},
		{"missing score", ProcGradeSubmission, map[string]any{"submissionId": float64(3)}},
		{"empty title", ProcUpdateCourse, map[string]any{"courseId": float64(1), "title": "", "price": float64(2), "userId": float64(3)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			conn := uowtest.NewFakeConn()
			err := Dispatch(context.Background(), uow.New(conn), tc.proc, tc.body)

			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
			assert.Empty(t, conn.Statements())
		})
	}
}

func TestDispatchPositionalOrder(t *testing.T) {
	cases := []struct {
		proc     string
		body     map[string]any
		wantSQL  string
		wantArgs []any
	}{
		{
			proc:     ProcDeleteCourse,
			body:     map[string]any{"courseId": float64(9), "userId": float64(4)},
			wantSQL:  "CALL sp_delete_course($1,$2)",
			wantArgs: []any{int64(9), int64(4)},
		},
		{
			proc:     ProcSubmitAssignment,
			body:     map[string]any{"assignmentId": float64(5), "userId": float64(6), "content": "answer"},
			wantSQL:  "CALL sp_submit_assignment($1,$2,$3)",
			wantArgs: []any{int64(5), int64(6), "answer"},
		},
		{
			proc:     ProcAddReview,
			body:     map[string]any{"courseId": float64(1), "userId": float64(2), "rating": float64(5)},
			wantSQL:  "CALL sp_add_review($1,$2,$3,$4)",
			wantArgs: []any{int64(1), int64(2), float64(5), ""},
		},
		{
			proc:     ProcProcessPayment,
			body:     map[string]any{"userId": float64(2), "courseId": float64(3), "amount": 49.99},
			wantSQL:  "CALL sp_process_payment($1,$2,$3)",
			wantArgs: []any{int64(2), int64(3), 49.99},
		},
		{
			proc:     ProcUpdateCourse,
			body:     map[string]any{"courseId": float64(7), "title": "New", "price": 9.99, "userId": float64(1)},
			wantSQL:  "CALL sp_update_course($1,$2,$3,$4)",
			wantArgs: []any{int64(7), "New", 9.99, int64(1)},
		},
	}

	for _, tc := range cases {
		t.Run(tc.proc, func(t *testing.T) {
			conn := uowtest.NewFakeConn()
			require.NoError(t, Dispatch(context.Background(), uow.New(conn), tc.proc, tc.body))
			require.Len(t, conn.Log, 1)
			assert.Equal(t, tc.wantSQL, conn.Log[0].SQL)
			assert.Equal(t, tc.wantArgs, conn.Log[0].Args)
		})
	}
}

func TestDispatchRejectsFractionalIDs(t *testing.T) {
	conn := uowtest.NewFakeConn()
	err := Dispatch(context.Background(), uow.New(conn), ProcEnrollUser, map[string]any{
		"userId":   1.5,
		"courseId": float64(2),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.ErrorContains(t, err, "userId")
	assert.Empty(t, conn.Statements(), "a truncated id must never reach the store")
}

func TestDispatchCoercesNumericStrings(t *testing.T) {
	conn := uowtest.NewFakeConn()
	err := Dispatch(context.Background(), uow.New(conn), ProcCompleteLesson, map[string]any{
		"userId":   "15",
		"lessonId": float64(3),
	})

	require.NoError(t, err)
	require.Len(t, conn.Log, 1)
	assert.Equal(t, []any{int64(15), int64(3)}, conn.Log[0].Args)
}
