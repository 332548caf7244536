package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"studyplatform/internal/domain"
	"studyplatform/internal/infrastructure/repository"
)

type EventHandler struct {
	repo *repository.EventDocRepository
}

func NewEventHandler(repo *repository.EventDocRepository) *EventHandler {
	return &EventHandler{repo: repo}
}

// GET /api/v1/events?userId=1&since=2026-01-01T00:00:00Z
func (h *EventHandler) List(c *gin.Context) {
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

type eventReq struct {
	UserID   *int64         `json:"userId"`
	CourseID *int64         `json:"courseId"`
	Type     string         `json:"type"`
	Metadata map[string]any `json:"metadata"`
}

// POST /api/v1/events
func (h *EventHandler) Create(c *gin.Context) {
	var req eventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UserID == nil || req.Type == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and type are required"})
		return
	}

	doc := &domain.ActivityEventDoc{
		UserID:   *req.UserID,
		CourseID: req.CourseID,
		Type:     req.Type,
		Metadata: req.Metadata,
		TS:       time.Now(),
	}
	id, err := h.repo.Insert(c, doc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id.Hex()})
}
