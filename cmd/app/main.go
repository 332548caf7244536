package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"studyplatform/config"
	"studyplatform/internal/application"
	"studyplatform/internal/infrastructure/cache"
	"studyplatform/internal/infrastructure/db"
	"studyplatform/internal/infrastructure/repository"
	"studyplatform/internal/middleware"
	"studyplatform/internal/pkg/logger"
	handlers "studyplatform/internal/transport/http"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPostgresPool(ctx, cfg)
	if err != nil {
		logg.Fatal("Failed to connect to Postgres", "error", err)
	}
	defer pool.Close()
	logg.Info("Connected to Postgres", "host", cfg.DBHost, "db", cfg.DBName)

	gormDB, err := db.NewGormDB(cfg)
	if err != nil {
		logg.Fatal("Failed to open gorm connection", "error", err)
	}

	mongoClient, mongoDB, err := db.NewMongoDatabase(ctx, cfg)
	if err != nil {
		logg.Fatal("Failed to connect to MongoDB", "error", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logg.Warn("Mongo disconnect", "error", err)
		}
	}()
	logg.Info("Connected to MongoDB", "db", cfg.MongoDB)

	rdb, err := db.NewRedisClient(ctx, cfg)
	if err != nil {
		logg.Fatal("Failed to connect to Redis", "error", err)
	}
	defer rdb.Close()
	logg.Info("Connected to Redis", "addr", cfg.RedisAddr)

	rateLimiter := middleware.NewRateLimiter(rdb)
	runner := application.NewRunner(pool, logg)

	h := handlers.Handlers{
		Procedure:  handlers.NewProcedureHandler(pool, logg),
		Testing:    handlers.NewTestingHandler(runner),
		User:       handlers.NewUserHandler(pool, logg),
		Course:     handlers.NewCourseHandler(pool),
		Lesson:     handlers.NewLessonHandler(pool),
		Discussion: handlers.NewDiscussionHandler(repository.NewDiscussionRepository(gormDB)),
		SQLEvent:   handlers.NewSQLEventHandler(repository.NewActivityEventRepository(gormDB)),
		Event:      handlers.NewEventHandler(repository.NewEventDocRepository(mongoDB.Collection(db.EventsCollection))),
		Comment:    handlers.NewCommentHandler(repository.NewCommentRepository(mongoDB.Collection(db.CommentsCollection))),
		Cache:      handlers.NewCacheHandler(cache.NewStore(rdb)),
		Health:     handlers.NewHealthHandler(pool, mongoClient, rdb),
	}

	router := handlers.NewRouter(h, rateLimiter)

	srv := &http.Server{
		Addr:    cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		logg.Info("HTTP server running", "addr", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("Failed to run server", "error", err)
		}
	}()

	<-ctx.Done()
	logg.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("Server shutdown", "error", err)
	}
}
