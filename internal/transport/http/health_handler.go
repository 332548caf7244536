package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type HealthHandler struct {
	pool  *pgxpool.Pool
	mongo *mongo.Client
	redis *redis.Client
}

func NewHealthHandler(pool *pgxpool.Pool, mc *mongo.Client, rc *redis.Client) *HealthHandler {
	return &HealthHandler{pool: pool, mongo: mc, redis: rc}
}

// GET /api/v1/health
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	stores := gin.H{"postgres": "ok", "mongo": "ok", "redis": "ok"}
	healthy := true

	if err := h.pool.Ping(ctx); err != nil {
		stores["postgres"] = err.Error()
		healthy = false
	}
	if err := h.mongo.Ping(ctx, readpref.Primary()); err != nil {
		stores["mongo"] = err.Error()
		healthy = false
	}
	if err := h.redis.Ping(ctx).Err(); err != nil {
		stores["redis"] = err.Error()
		healthy = false
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": stores, "time": time.Now().UTC()})
}
