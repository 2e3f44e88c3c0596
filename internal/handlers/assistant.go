package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"senior-house/internal/assistant"
	"senior-house/internal/models"
)

// JobDraft writes a posting from structured input. Incomplete input still
// gets a minimal fallback text next to the error.
func JobDraft(c *gin.Context) {
	var req assistant.DraftRequest
	if !bindJSON(c, &req) {
		return
	}
	draft, err := assistant.Generate(req)
	if errors.Is(err, models.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "fallback": assistant.Fallback(req)})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

type validateRequest struct {
	Text string `json:"text"`
}

// JobValidate flags discriminatory keywords in a posting text.
func JobValidate(c *gin.Context) {
	var req validateRequest
	if !bindJSON(c, &req) {
		return
	}
	flags := assistant.Validate(req.Text)
	c.JSON(http.StatusOK, gin.H{
		"valid":    len(flags) == 0,
		"flags":    flags,
		"filtered": assistant.Filter(req.Text),
	})
}
