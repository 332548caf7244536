package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyplatform/internal/infrastructure/repository"
	"studyplatform/internal/infrastructure/uow"
	"studyplatform/internal/pkg/logger"
)

type UserHandler struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewUserHandler(pool *pgxpool.Pool, log *logger.Logger) *UserHandler {
	return &UserHandler{pool: pool, log: log.With("handler", "users")}
}

// GET /api/v1/users?userId=1
func (h *UserHandler) GetEnrollments(c *gin.Context) {
	raw, ok := c.GetQuery("userId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing userId"})
		return
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userId"})
		return
	}

	conn, err := h.pool.Acquire(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer conn.Release()

	repo := repository.NewUserRepository(uow.New(conn))
	rows, err := repo.Enrollments(c, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

type enrollReq struct {
	Action   string `json:"action"`
	UserID   *int64 `json:"userId"`
	CourseID *int64 `json:"courseId"`
}

// POST /api/v1/users
func (h *UserHandler) Action(c *gin.Context) {
	var req enrollReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Action != "enroll" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported action"})
		return
	}
	if req.UserID == nil || req.CourseID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and courseId are required numbers"})
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
	repo := repository.NewUserRepository(u)
	if err := repo.Enroll(c, *req.UserID, *req.CourseID); err != nil {
		_ = u.Rollback(c)
		h.log.Warn("enroll failed", "user_id", *req.UserID, "course_id", *req.CourseID, "error", err)
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
