package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"studyplatform/internal/domain"
	"studyplatform/internal/infrastructure/repository"
)

type CommentHandler struct {
	repo *repository.CommentRepository
}

func NewCommentHandler(repo *repository.CommentRepository) *CommentHandler {
	return &CommentHandler{repo: repo}
}

// GET /api/v1/comments?lessonId=1
func (h *CommentHandler) List(c *gin.Context) {
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

type commentReq struct {
	LessonID *int64 `json:"lessonId"`
	UserID   *int64 `json:"userId"`
	Content  string `json:"content"`
}

// POST /api/v1/comments
func (h *CommentHandler) Create(c *gin.Context) {
	var req commentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.LessonID == nil || req.UserID == nil || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lessonId, userId and content are required"})
		return
	}

	doc := &domain.CommentDoc{
		LessonID:  *req.LessonID,
		UserID:    *req.UserID,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	id, err := h.repo.Insert(c, doc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id.Hex()})
}
