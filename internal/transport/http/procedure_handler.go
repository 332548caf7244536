package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyplatform/internal/application"
	"studyplatform/internal/infrastructure/uow"
	"studyplatform/internal/pkg/logger"
)

type ProcedureHandler struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewProcedureHandler(pool *pgxpool.Pool, log *logger.Logger) *ProcedureHandler {
	return &ProcedureHandler{pool: pool, log: log.With("handler", "procedures")}
}

// POST /api/v1/procedures/:name
func (h *ProcedureHandler) Invoke(c *gin.Context) {
	name := c.Param("name")

	body := map[string]any{}
	// An empty or missing body is fine; validation happens per procedure.
	_ = c.ShouldBindJSON(&body)

	conn, err := h.pool.Acquire(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer conn.Release()

	u := uow.New(conn)
	if err := u.Begin(c); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := application.Dispatch(c, u, name, body); err != nil {
		_ = u.Rollback(c)
		h.log.Warn("procedure dispatch failed", "name", name, "error", err)
		c.JSON(statusForDispatch(err), gin.H{"error": err.Error()})
		return
	}
	if err := u.Commit(c); err != nil {
		_ = u.Rollback(c)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
