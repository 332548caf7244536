package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"studyplatform/internal/infrastructure/cache"
)

type CacheHandler struct {
	store *cache.Store
}

func NewCacheHandler(store *cache.Store) *CacheHandler {
	return &CacheHandler{store: store}
}

// GET /api/v1/cache?key=session:1 or ?leaderboard=course_scores&top=10
func (h *CacheHandler) Get(c *gin.Context) {
	if board, ok := c.GetQuery("leaderboard"); ok {
		n := int64(10)
		if raw, ok := c.GetQuery("top"); ok {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || parsed < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid top"})
				return
			}
			n = parsed
		}
		entries, err := h.store.Top(c, board, n)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		out := make([]gin.H, 0, len(entries))
		for _, z := range entries {
			out = append(out, gin.H{"member": z.Member, "score": z.Score})
		}
		c.JSON(http.StatusOK, gin.H{"leaderboard": board, "entries": out})
		return
	}

	key, ok := c.GetQuery("key")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing key or leaderboard"})
		return
	}
	val, err := h.store.Get(c, key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": val})
}

type cacheReq struct {
	Key         string   `json:"key"`
	Value       string   `json:"value"`
	Leaderboard string   `json:"leaderboard"`
	Member      string   `json:"member"`
	By          *float64 `json:"by"`
}

// POST /api/v1/cache
func (h *CacheHandler) Set(c *gin.Context) {
	var req cacheReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Leaderboard != "" {
		if req.Member == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "member is required"})
			return
		}
		by := 1.0
		if req.By != nil {
			by = *req.By
		}
		score, err := h.store.IncrScore(c, req.Leaderboard, req.Member, by)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"member": req.Member, "score": score})
		return
	}

	if req.Key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key is required"})
		return
	}
	if err := h.store.Set(c, req.Key, req.Value); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": req.Key})
}
