package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"senior-house/internal/services"
)

// AdminHandler serves the company approval queue.
type AdminHandler struct {
	users *services.UserService
}

func NewAdminHandler(users *services.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

func (h *AdminHandler) PendingCompanies(c *gin.Context) {
	users, err := h.users.PendingCompanies(c.Request.Context(), c.GetInt("userID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": users})
}

func (h *AdminHandler) Approve(c *gin.Context) {
	userID, ok := pathInt(c, "user_id")
	if !ok {
		return
	}
	if err := h.users.ApproveCompany(c.Request.Context(), c.GetInt("userID"), userID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "approved"})
}

func (h *AdminHandler) Reject(c *gin.Context) {
	userID, ok := pathInt(c, "user_id")
	if !ok {
		return
	}
	if err := h.users.RejectCompany(c.Request.Context(), c.GetInt("userID"), userID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rejected"})
}
