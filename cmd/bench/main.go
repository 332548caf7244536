package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"studyplatform/config"
	"studyplatform/internal/bench"
	"studyplatform/internal/infrastructure/db"
	"studyplatform/internal/pkg/logger"
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

	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx, cfg)
	if err != nil {
		logg.Fatal("Failed to connect to Postgres", "error", err)
	}
	defer pool.Close()

	mongoClient, mongoDB, err := db.NewMongoDatabase(ctx, cfg)
	if err != nil {
		logg.Fatal("Failed to connect to MongoDB", "error", err)
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	logg.Info("Starting benchmark", "count", cfg.BenchCount)

	harness := bench.New(pool, mongoDB, logg)
	results, err := harness.RunAll(ctx, cfg.BenchCount)
	if err != nil {
		logg.Error("Benchmark failed", "error", err)
		printResults(results)
		os.Exit(1)
	}
	printResults(results)
}

func printResults(results []bench.Result) {
	if len(results) == 0 {
		return
	}
	fmt.Printf("%-20s %12s %12s %8s\n", "name", "insertsMs", "queryMs", "count")
	for _, r := range results {
		fmt.Printf("%-20s %12.1f %12.1f %8d\n", r.Name, r.InsertMS, r.QueryMS, r.Count)
	}
}
