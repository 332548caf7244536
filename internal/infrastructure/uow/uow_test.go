package uow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyplatform/internal/domain"
	"studyplatform/internal/infrastructure/uow"
	"studyplatform/internal/infrastructure/uow/uowtest"
)

func TestBeginIsIdempotent(t *testing.T) {
	conn := uowtest.NewFakeConn()
	u := uow.New(conn)
	ctx := context.Background()

	require.NoError(t, u.Begin(ctx))
	require.NoError(t, u.Begin(ctx))

	assert.Equal(t, []string{"BEGIN"}, conn.Statements())
	assert.True(t, u.InTransaction())
}

func TestCommitAndRollbackWithoutBeginAreNoOps(t *testing.T) {
	conn := uowtest.NewFakeConn()
	u := uow.New(conn)
	ctx := context.Background()

	require.NoError(t, u.Commit(ctx))
	require.NoError(t, u.Rollback(ctx))

	assert.Empty(t, conn.Statements())
}

func TestUnboundConnection(t *testing.T) {
	u := uow.New(nil)
	ctx := context.Background()

	assert.ErrorIs(t, u.Begin(ctx), domain.ErrConnUnavailable)

	_, err := u.Exec(ctx, "SELECT 1")
	assert.ErrorIs(t, err, domain.ErrConnUnavailable)

	_, err = u.Query(ctx, "SELECT 1")
	assert.ErrorIs(t, err, domain.ErrConnUnavailable)

	// Commit and rollback stay silent even unbound.
	assert.NoError(t, u.Commit(ctx))
	assert.NoError(t, u.Rollback(ctx))
}

func TestReusableAcrossSequentialTransactions(t *testing.T) {
	conn := uowtest.NewFakeConn()
	u := uow.New(conn)
	ctx := context.Background()

	require.NoError(t, u.Begin(ctx))
	require.NoError(t, u.Commit(ctx))
	assert.False(t, u.InTransaction())

	require.NoError(t, u.Begin(ctx))
	require.NoError(t, u.Rollback(ctx))

	assert.Equal(t, []string{"BEGIN", "COMMIT", "BEGIN", "ROLLBACK"}, conn.Statements())
}

func TestFailedCommitLeavesTransactionOpenForRollback(t *testing.T) {
	conn := uowtest.NewFakeConn()
	boom := errors.New("deadlock detected")
	conn.FailOn("COMMIT", boom)
	u := uow.New(conn)
	ctx := context.Background()

	require.NoError(t, u.Begin(ctx))
	assert.ErrorIs(t, u.Commit(ctx), boom)
	assert.True(t, u.InTransaction())

	require.NoError(t, u.Rollback(ctx))
	assert.False(t, u.InTransaction())
	assert.Equal(t, []string{"BEGIN", "COMMIT", "ROLLBACK"}, conn.Statements())
}

func TestRollbackAfterRollbackIsSilent(t *testing.T) {
	conn := uowtest.NewFakeConn()
	u := uow.New(conn)
	ctx := context.Background()

	require.NoError(t, u.Begin(ctx))
	require.NoError(t, u.Rollback(ctx))
	require.NoError(t, u.Rollback(ctx))

	assert.Equal(t, []string{"BEGIN", "ROLLBACK"}, conn.Statements())
}

func TestExecPassesStatementsThrough(t *testing.T) {
	conn := uowtest.NewFakeConn()
	u := uow.New(conn)
	ctx := context.Background()

	_, err := u.Exec(ctx, "CALL sp_notify($1,$2)", int64(7), "hello")
	require.NoError(t, err)

	require.Len(t, conn.Log, 1)
	assert.Equal(t, "CALL sp_notify($1,$2)", conn.Log[0].SQL)
	assert.Equal(t, []any{int64(7), "hello"}, conn.Log[0].Args)
}

func TestQueryRowScansFirstRow(t *testing.T) {
	conn := uowtest.NewFakeConn()
	conn.On("SELECT id FROM users", []string{"id"}, [][]any{{int64(42)}})
	u := uow.New(conn)

	var id int64
	err := u.QueryRow(context.Background(), "SELECT id FROM users ORDER BY id LIMIT 1").Scan(&id)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}
