package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyplatform/internal/infrastructure/repository"
	"studyplatform/internal/infrastructure/uow"
)

type CourseHandler struct {
	pool *pgxpool.Pool
}

func NewCourseHandler(pool *pgxpool.Pool) *CourseHandler {
	return &CourseHandler{pool: pool}
}

// GET /api/v1/courses?view=active|stats
func (h *CourseHandler) List(c *gin.Context) {
	view := strings.ToLower(c.DefaultQuery("view", "active"))

	conn, err := h.pool.Acquire(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer conn.Release()

	repo := repository.NewCourseRepository(uow.New(conn))

	var rows []map[string]any
	if view == "stats" {
		rows, err = repo.Stats(c)
	} else {
		rows, err = repo.Active(c)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}
