package bench

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"studyplatform/internal/infrastructure/uow"
	"studyplatform/internal/infrastructure/uow/uowtest"
)

func TestMakeCommentDocsFanOut(t *testing.T) {
	now := time.Now()
	docs := makeCommentDocs(120, now)
	require.Len(t, docs, 120)

	first, ok := docs[0].(bson.D)
	require.True(t, ok)
	assert.Equal(t, bson.D{
		{Key: "lessonId", Value: int64(1)},
		{Key: "userId", Value: int64(1)},
		{Key: "content", Value: "Comment #0"},
		{Key: "createdAt", Value: now},
	}, first)

	// lesson ids wrap at 50, user ids at 10
	doc50 := docs[50].(bson.D)
	assert.Equal(t, int64(1), doc50[0].Value)
	assert.Equal(t, int64(1), doc50[1].Value)
	doc73 := docs[73].(bson.D)
	assert.Equal(t, int64(24), doc73[0].Value)
	assert.Equal(t, int64(4), doc73[1].Value)
}

func TestMakeEventDocsAlternatesTypes(t *testing.T) {
	now := time.Now()
	docs := makeEventDocs(4, now)
	require.Len(t, docs, 4)

	types := make([]string, 0, 4)
	for _, d := range docs {
		doc := d.(bson.D)
		types = append(types, doc[2].Value.(string))
	}
	assert.Equal(t, []string{"click", "view", "click", "view"}, types)

	// timestamps walk backwards a millisecond per event
	assert.Equal(t, now, docs[0].(bson.D)[4].Value)
	assert.Equal(t, now.Add(-3*time.Millisecond), docs[3].(bson.D)[4].Value)
}

func TestEventTSWrapsAfterASecond(t *testing.T) {
	now := time.Now()
	assert.Equal(t, now, eventTS(now, 0))
	assert.Equal(t, now, eventTS(now, 1000))
	assert.Equal(t, now.Add(-999*time.Millisecond), eventTS(now, 999))
}

func TestPickWrapsAround(t *testing.T) {
	ids := []int64{11, 22, 33}
	assert.Equal(t, int64(11), pick(ids, 0))
	assert.Equal(t, int64(33), pick(ids, 2))
	assert.Equal(t, int64(11), pick(ids, 3))
	assert.Equal(t, int64(22), pick(ids, 7))
}

func countMatching(stmts []string, substr string) int {
	n := 0
	for _, s := range stmts {
		if strings.Contains(s, substr) {
			n++
		}
	}
	return n
}

func TestSQLDiscussionsInsertsEveryRowInOneTransaction(t *testing.T) {
	conn := uowtest.NewFakeConn()
	conn.On("SELECT * FROM discussions", []string{"id"}, [][]any{{int64(1)}, {int64(2)}})

	res, err := sqlDiscussions(context.Background(), uow.New(conn),
		[]int64{10, 20}, []int64{100, 200, 300}, 5)
	require.NoError(t, err)

	stmts := conn.Statements()
	assert.Equal(t, 1, countMatching(stmts, "BEGIN"))
	assert.Equal(t, 5, countMatching(stmts, "INSERT INTO discussions"))
	assert.Equal(t, 1, countMatching(stmts, "COMMIT"))
	assert.Zero(t, countMatching(stmts, "ROLLBACK"))

	// delete precedes the transaction, the read follows the commit
	assert.Equal(t, "DELETE FROM discussions", stmts[0])
	assert.Equal(t, "BEGIN", stmts[1])
	assert.Equal(t, "COMMIT", stmts[7])
	assert.Contains(t, stmts[8], "LIMIT 1000")

	// fan-out wraps over both id slices
	assert.Equal(t, []any{int64(100), int64(10), "Comment #0"}, conn.Log[2].Args)
	assert.Equal(t, []any{int64(100), int64(20), "Comment #3"}, conn.Log[5].Args)

	assert.Equal(t, "SQL Discussions", res.Name)
	assert.Equal(t, 2, res.Count)
}

func TestSQLDiscussionsRollsBackWhenAnInsertFails(t *testing.T) {
	conn := uowtest.NewFakeConn()
	boom := errors.New("duplicate key")
	conn.FailOn("INSERT INTO discussions", boom)

	_, err := sqlDiscussions(context.Background(), uow.New(conn),
		[]int64{10}, []int64{100}, 3)
	require.ErrorIs(t, err, boom)

	stmts := conn.Statements()
	assert.Equal(t, "ROLLBACK", stmts[len(stmts)-1])
	assert.Zero(t, countMatching(stmts, "COMMIT"))
}

func TestSQLEventsInsertsEveryRowInOneTransaction(t *testing.T) {
	conn := uowtest.NewFakeConn()
	conn.On("SELECT * FROM activity_events", []string{"id"}, [][]any{{int64(1)}})

	now := time.Now()
	res, err := sqlEvents(context.Background(), uow.New(conn),
		[]int64{10, 20}, []int64{100}, 4, now)
	require.NoError(t, err)

	stmts := conn.Statements()
	assert.Equal(t, 1, countMatching(stmts, "BEGIN"))
	assert.Equal(t, 4, countMatching(stmts, "INSERT INTO activity_events"))
	assert.Equal(t, 1, countMatching(stmts, "COMMIT"))
	assert.Zero(t, countMatching(stmts, "ROLLBACK"))

	// the read targets the second user and caps at the row limit
	last := conn.Log[len(conn.Log)-1]
	assert.Contains(t, last.SQL, "LIMIT 1000")
	assert.Equal(t, []any{int64(20), "view"}, last.Args)

	// types alternate and timestamps walk backwards
	assert.Equal(t, "click", conn.Log[2].Args[2])
	assert.Equal(t, "view", conn.Log[3].Args[2])
	assert.Equal(t, now.Add(-time.Millisecond), conn.Log[3].Args[4])

	assert.Equal(t, "SQL Events", res.Name)
	assert.Equal(t, 1, res.Count)
}

func TestSQLEventsRollsBackWhenAnInsertFails(t *testing.T) {
	conn := uowtest.NewFakeConn()
	boom := errors.New("constraint violation")
	conn.FailOn("INSERT INTO activity_events", boom)

	_, err := sqlEvents(context.Background(), uow.New(conn),
		[]int64{10}, []int64{100}, 2, time.Now())
	require.ErrorIs(t, err, boom)

	stmts := conn.Statements()
	assert.Equal(t, "ROLLBACK", stmts[len(stmts)-1])
	assert.Zero(t, countMatching(stmts, "COMMIT"))
}

func TestCountRowsCountsWithoutScanning(t *testing.T) {
	conn := uowtest.NewFakeConn()
	conn.On("FROM discussions", []string{"id"}, [][]any{{int64(1)}, {int64(2)}, {int64(3)}})

	n, err := countRows(context.Background(), uow.New(conn),
		"SELECT id FROM discussions WHERE lesson_id = $1", int64(1))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
