package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"studyplatform/internal/domain"
)

// dryRunDB builds statements without a live store and captures the SQL of
// the last create.
func dryRunDB(t *testing.T) (*gorm.DB, *string) {
	t.Helper()
	gdb, err := gorm.Open(postgres.Open("host=localhost user=postgres dbname=study_platform"), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	var captured string
	err = gdb.Callback().Create().After("gorm:create").Register("capture_insert", func(tx *gorm.DB) {
		captured = tx.Statement.SQL.String()
	})
	require.NoError(t, err)
	return gdb, &captured
}

func TestActivityEventCreateLeavesTimestampToDatabase(t *testing.T) {
	gdb, sql := dryRunDB(t)
	repo := NewActivityEventRepository(gdb)

	courseID := int64(3)
	e := &domain.ActivityEvent{UserID: 7, CourseID: &courseID, Type: "view"}
	require.NoError(t, repo.Create(context.Background(), e))

	require.NotEmpty(t, *sql)
	assert.Contains(t, *sql, `"user_id"`)
	assert.Contains(t, *sql, `"course_id"`)
	assert.Contains(t, *sql, `"type"`)
	assert.NotContains(t, *sql, `"ts"`)
}

func TestDiscussionCreateLeavesTimestampToDatabase(t *testing.T) {
	gdb, sql := dryRunDB(t)
	repo := NewDiscussionRepository(gdb)

	d := &domain.Discussion{LessonID: 1, UserID: 2, Content: "hello"}
	require.NoError(t, repo.Create(context.Background(), d))

	require.NotEmpty(t, *sql)
	assert.Contains(t, *sql, `"lesson_id"`)
	assert.Contains(t, *sql, `"content"`)
	assert.NotContains(t, *sql, `"updated_at"`)
}
