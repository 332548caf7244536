package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"studyplatform/internal/domain"
	"studyplatform/internal/infrastructure/repository"
)

type DiscussionHandler struct {
	repo *repository.DiscussionRepository
}

func NewDiscussionHandler(repo *repository.DiscussionRepository) *DiscussionHandler {
	return &DiscussionHandler{repo: repo}
}

// GET /api/v1/discussions?lessonId=1
func (h *DiscussionHandler) List(c *gin.Context) {
	raw, ok := c.GetQuery("lessonId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing lessonId"})
		return
	}
	lessonID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lessonId"})
		return
	}

	out, err := h.repo.ListByLesson(c, lessonID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

type discussionReq struct {
	LessonID *int64 `json:"lessonId"`
	UserID   *int64 `json:"userId"`
	Content  string `json:"content"`
}

// POST /api/v1/discussions
func (h *DiscussionHandler) Create(c *gin.Context) {
	var req discussionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.LessonID == nil || req.UserID == nil || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lessonId, userId and content are required"})
		return
	}

	d := &domain.Discussion{
		LessonID: *req.LessonID,
		UserID:   *req.UserID,
		Content:  req.Content,
	}
	if err := h.repo.Create(c, d); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": d.ID})
}
