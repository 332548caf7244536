package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"studyplatform/internal/domain"
)

func statusForDispatch(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownProcedure):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		// Store-level failures on a dispatched call are the caller's problem:
		// the transaction was rolled back and the call can be re-issued.
		return http.StatusBadRequest
	}
}

// parseEventFilter reads the shared userId/courseId/type/since/until query
// parameters for both event stores.
func parseEventFilter(c *gin.Context) (domain.EventFilter, bool) {
	var f domain.EventFilter

	if raw, ok := c.GetQuery("userId"); ok {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userId"})
			return f, false
		}
		f.UserID = &id
	}
	if raw, ok := c.GetQuery("courseId"); ok {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid courseId"})
			return f, false
		}
		f.CourseID = &id
	}
	f.Type = c.Query("type")
	if raw, ok := c.GetQuery("since"); ok {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid since"})
			return f, false
		}
		f.Since = &t
	}
	if raw, ok := c.GetQuery("until"); ok {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid until"})
			return f, false
		}
		f.Until = &t
	}
	return f, true
}
