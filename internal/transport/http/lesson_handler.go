package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyplatform/internal/infrastructure/repository"
	"studyplatform/internal/infrastructure/uow"
)

type LessonHandler struct {
	pool *pgxpool.Pool
}

func NewLessonHandler(pool *pgxpool.Pool) *LessonHandler {
	return &LessonHandler{pool: pool}
}

type completeReq struct {
	Action   string `json:"action"`
	UserID   *int64 `json:"userId"`
	LessonID *int64 `json:"lessonId"`
}

// POST /api/v1/lessons
func (h *LessonHandler) Action(c *gin.Context) {
	var req completeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Action != "complete" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported action"})
		return
	}
	if req.UserID == nil || req.LessonID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and lessonId are required numbers"})
		return
	}

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
	repo := repository.NewLessonRepository(u)
	if err := repo.Complete(c, *req.UserID, *req.LessonID); err != nil {
		_ = u.Rollback(c)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := u.Commit(c); err != nil {
		_ = u.Rollback(c)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
