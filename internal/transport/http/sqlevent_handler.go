package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"studyplatform/internal/domain"
	"studyplatform/internal/infrastructure/repository"
)

type SQLEventHandler struct {
	repo *repository.ActivityEventRepository
}

func NewSQLEventHandler(repo *repository.ActivityEventRepository) *SQLEventHandler {
	return &SQLEventHandler{repo: repo}
}

// GET /api/v1/sql-events?userId=1&type=lesson_completed
func (h *SQLEventHandler) List(c *gin.Context) {
	filter, ok := parseEventFilter(c)
	if !ok {
		return
	}

	out, err := h.repo.List(c, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

type sqlEventReq struct {
	UserID   *int64         `json:"userId"`
	CourseID *int64         `json:"courseId"`
	Type     string         `json:"type"`
	Metadata map[string]any `json:"metadata"`
}

// POST /api/v1/sql-events
func (h *SQLEventHandler) Create(c *gin.Context) {
	var req sqlEventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UserID == nil || req.Type == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and type are required"})
		return
	}

	// ts is left to the column default; the insert never writes it.
	e := &domain.ActivityEvent{
		UserID:   *req.UserID,
		CourseID: req.CourseID,
		Type:     req.Type,
	}
	if req.Metadata != nil {
		raw, err := json.Marshal(req.Metadata)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid metadata"})
			return
		}
		e.Metadata = datatypes.JSON(raw)
	}

	if err := h.repo.Create(c, e); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": e.ID})
}
