package bench

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Foreign keys fan out deterministically so repeated runs produce the same
// distribution: comments spread over 50 lessons and 10 users, events over
// 10 users and 5 courses.

func makeCommentDocs(count int, now time.Time) []any {
	docs := make([]any, 0, count)
	for i := 0; i < count; i++ {
		docs = append(docs, bson.D{
			{Key: "lessonId", Value: int64(i%50) + 1},
			{Key: "userId", Value: int64(i%10) + 1},
			{Key: "content", Value: commentText(i)},
			{Key: "createdAt", Value: now},
		})
	}
	return docs
}

func makeEventDocs(count int, now time.Time) []any {
	docs := make([]any, 0, count)
	for i := 0; i < count; i++ {
		docs = append(docs, bson.D{
			{Key: "userId", Value: int64(i%10) + 1},
			{Key: "courseId", Value: int64(i%5) + 1},
			{Key: "type", Value: eventType(i)},
			{Key: "metadata", Value: bson.M{"i": i}},
			{Key: "ts", Value: eventTS(now, i)},
		})
	}
	return docs
}

func commentText(i int) string {
	return fmt.Sprintf("Comment #%d", i)
}

func eventType(i int) string {
	if i%2 == 0 {
		return "click"
	}
	return "view"
}

// eventTS spreads timestamps over the last second so ts-ordered reads do not
// see a single identical value.
func eventTS(now time.Time, i int) time.Time {
	return now.Add(-time.Duration(i%1000) * time.Millisecond)
}

func pick(ids []int64, i int) int64 {
	return ids[i%len(ids)]
}
