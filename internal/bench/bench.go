package bench

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"studyplatform/internal/application"
	"studyplatform/internal/infrastructure/db"
	"studyplatform/internal/infrastructure/uow"
	"studyplatform/internal/pkg/logger"
)

// Result holds the timings of one scenario: bulk insert phase, then a
// representative filtered read.
type Result struct {
	Name     string  `json:"name"`
	InsertMS float64 `json:"insertsMs"`
	QueryMS  float64 `json:"queryMs"`
	Count    int     `json:"count"`
}

// Harness runs the same comment and event workloads against the document
// store and the relational store so their timings can be compared.
type Harness struct {
	pool  *pgxpool.Pool
	mongo *mongo.Database
	prov  *application.Provisioner
	log   *logger.Logger
}

func New(pool *pgxpool.Pool, mdb *mongo.Database, log *logger.Logger) *Harness {
	return &Harness{
		pool:  pool,
		mongo: mdb,
		prov:  application.NewProvisioner(pool, log),
		log:   log.With("component", "bench"),
	}
}

// RunAll executes all four scenarios in a fixed order. The comment scenarios
// use half of count so a full run writes roughly 3*count rows.
func (h *Harness) RunAll(ctx context.Context, count int) ([]Result, error) {
	type scenario struct {
		n   int
		run func(context.Context, int) (Result, error)
	}
	scenarios := []scenario{
		{count / 2, h.MongoComments},
		{count / 2, h.SQLDiscussions},
		{count, h.MongoEvents},
		{count, h.SQLEvents},
	}

	results := make([]Result, 0, len(scenarios))
	for _, s := range scenarios {
		res, err := s.run(ctx, s.n)
		if err != nil {
			return results, err
		}
		h.log.Info("scenario finished",
			"name", res.Name, "insertsMs", res.InsertMS, "queryMs", res.QueryMS, "count", res.Count)
		results = append(results, res)
	}
	return results, nil
}

func (h *Harness) MongoComments(ctx context.Context, count int) (Result, error) {
	col := h.mongo.Collection(db.CommentsCollection)
	if _, err := col.DeleteMany(ctx, bson.M{}); err != nil {
		return Result{}, err
	}
	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "lessonId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return Result{}, err
	}

	docs := makeCommentDocs(count, time.Now())
	insertStart := time.Now()
	if _, err := col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false)); err != nil {
		return Result{}, err
	}
	insertDur := time.Since(insertStart)

	queryStart := time.Now()
	cur, err := col.Find(ctx, bson.M{"lessonId": 1},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(1000))
	if err != nil {
		return Result{}, err
	}
	var read []bson.M
	if err := cur.All(ctx, &read); err != nil {
		return Result{}, err
	}
	queryDur := time.Since(queryStart)

	return Result{Name: "Mongo Comments", InsertMS: ms(insertDur), QueryMS: ms(queryDur), Count: len(read)}, nil
}

func (h *Harness) SQLDiscussions(ctx context.Context, count int) (Result, error) {
	userIDs, err := h.prov.EnsureUsers(ctx, 10)
	if err != nil {
		return Result{}, err
	}
	lessonIDs, err := h.prov.EnsureBaseline(ctx, 50)
	if err != nil {
		return Result{}, err
	}

	conn, err := h.pool.Acquire(ctx)
	if err != nil {
		return Result{}, err
	}
	defer conn.Release()
	return sqlDiscussions(ctx, uow.New(conn), userIDs, lessonIDs, count)
}

func sqlDiscussions(ctx context.Context, u *uow.UnitOfWork, userIDs, lessonIDs []int64, count int) (Result, error) {
	if _, err := u.Exec(ctx, "DELETE FROM discussions"); err != nil {
		return Result{}, err
	}

	insertStart := time.Now()
	if err := u.Begin(ctx); err != nil {
		return Result{}, err
	}
	for i := 0; i < count; i++ {
		_, err := u.Exec(ctx,
			"INSERT INTO discussions (lesson_id, user_id, content) VALUES ($1,$2,$3)",
			pick(lessonIDs, i), pick(userIDs, i), commentText(i))
		if err != nil {
			_ = u.Rollback(ctx)
			return Result{}, err
		}
	}
	if err := u.Commit(ctx); err != nil {
		_ = u.Rollback(ctx)
		return Result{}, err
	}
	insertDur := time.Since(insertStart)

	queryStart := time.Now()
	n, err := countRows(ctx, u,
		"SELECT * FROM discussions WHERE lesson_id = $1 AND is_deleted = FALSE ORDER BY updated_at DESC LIMIT 1000",
		lessonIDs[0])
	if err != nil {
		return Result{}, err
	}
	queryDur := time.Since(queryStart)

	return Result{Name: "SQL Discussions", InsertMS: ms(insertDur), QueryMS: ms(queryDur), Count: n}, nil
}

func (h *Harness) MongoEvents(ctx context.Context, count int) (Result, error) {
	col := h.mongo.Collection(db.EventsCollection)
	if _, err := col.DeleteMany(ctx, bson.M{}); err != nil {
		return Result{}, err
	}
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "ts", Value: -1}}},
		{Keys: bson.D{{Key: "courseId", Value: 1}, {Key: "ts", Value: -1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "ts", Value: -1}}},
	}
	if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
		return Result{}, err
	}

	docs := makeEventDocs(count, time.Now())
	insertStart := time.Now()
	if _, err := col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false)); err != nil {
		return Result{}, err
	}
	insertDur := time.Since(insertStart)

	queryStart := time.Now()
	cur, err := col.Find(ctx, bson.M{"userId": 2, "type": "view"},
		options.Find().SetSort(bson.D{{Key: "ts", Value: -1}}).SetLimit(1000))
	if err != nil {
		return Result{}, err
	}
	var read []bson.M
	if err := cur.All(ctx, &read); err != nil {
		return Result{}, err
	}
	queryDur := time.Since(queryStart)

	return Result{Name: "Mongo Events", InsertMS: ms(insertDur), QueryMS: ms(queryDur), Count: len(read)}, nil
}

func (h *Harness) SQLEvents(ctx context.Context, count int) (Result, error) {
	userIDs, err := h.prov.EnsureUsers(ctx, 10)
	if err != nil {
		return Result{}, err
	}
	courseIDs, err := h.prov.EnsureCourses(ctx, 5)
	if err != nil {
		return Result{}, err
	}

	conn, err := h.pool.Acquire(ctx)
	if err != nil {
		return Result{}, err
	}
	defer conn.Release()
	return sqlEvents(ctx, uow.New(conn), userIDs, courseIDs, count, time.Now())
}

func sqlEvents(ctx context.Context, u *uow.UnitOfWork, userIDs, courseIDs []int64, count int, now time.Time) (Result, error) {
	if _, err := u.Exec(ctx, "DELETE FROM activity_events"); err != nil {
		return Result{}, err
	}

	insertStart := time.Now()
	if err := u.Begin(ctx); err != nil {
		return Result{}, err
	}
	for i := 0; i < count; i++ {
		_, err := u.Exec(ctx,
			"INSERT INTO activity_events (user_id, course_id, type, metadata, ts) VALUES ($1,$2,$3,$4,$5)",
			pick(userIDs, i), pick(courseIDs, i), eventType(i),
			map[string]any{"i": i}, eventTS(now, i))
		if err != nil {
			_ = u.Rollback(ctx)
			return Result{}, err
		}
	}
	if err := u.Commit(ctx); err != nil {
		_ = u.Rollback(ctx)
		return Result{}, err
	}
	insertDur := time.Since(insertStart)

	readUser := userIDs[0]
	if len(userIDs) > 1 {
		readUser = userIDs[1]
	}
	queryStart := time.Now()
	n, err := countRows(ctx, u,
		"SELECT * FROM activity_events WHERE user_id = $1 AND type = $2 ORDER BY ts DESC LIMIT 1000",
		readUser, "view")
	if err != nil {
		return Result{}, err
	}
	queryDur := time.Since(queryStart)

	return Result{Name: "SQL Events", InsertMS: ms(insertDur), QueryMS: ms(queryDur), Count: n}, nil
}

func countRows(ctx context.Context, u *uow.UnitOfWork, sql string, args ...any) (int, error) {
	rows, err := u.Query(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		n++
	}
	return n, rows.Err()
}

func ms(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}
