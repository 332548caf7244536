package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"studyplatform/internal/application"
)

type TestingHandler struct {
	runner *application.Runner
}

func NewTestingHandler(runner *application.Runner) *TestingHandler {
	return &TestingHandler{runner: runner}
}

// GET /api/v1/testing?commit=true
//
// Runs the scripted transaction and rolls back unless commit=true is given
// explicitly, so the endpoint is safe to hit against live data.
func (h *TestingHandler) Run(c *gin.Context) {
	commit := strings.EqualFold(c.Query("commit"), "true")

	rep, err := h.runner.Run(c, commit)
	if err != nil {
		if rep == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"commit": false,
			"logs":   rep.Logs,
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"commit":  rep.Commit,
		"logs":    rep.Logs,
		"results": rep.Results,
	})
}
