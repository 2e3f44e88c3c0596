package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"senior-house/internal/models"
)

// ApplicationService is the application workflow used by the handlers.
type ApplicationService interface {
	Apply(ctx context.Context, userID, jobID int, message string) (models.ApplyResult, error)
	UpdateStatus(ctx context.Context, applicationID, actingUserID int, status models.ApplicationStatus) (models.JobApplication, error)
	CheckStatus(ctx context.Context, userID, jobID int) (models.ApplicationState, error)
	CheckStatuses(ctx context.Context, userID int, jobIDs []int) (map[int]models.ApplicationState, error)
	ListForUser(ctx context.Context, userID int) ([]models.ApplicationView, error)
	ListForJob(ctx context.Context, jobID, employerID int) ([]models.ApplicationView, error)
	OpenChat(ctx context.Context, jobID, callerID, applicantID int) (models.RoomResult, error)
}

// ApplicationHandler serves job application endpoints.
type ApplicationHandler struct {
	apps ApplicationService
}

func NewApplicationHandler(apps ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{apps: apps}
}

type applyRequest struct {
	Message string `json:"message"`
}

// Apply submits an application and opens the chat room with the employer.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	jobID, ok := pathInt(c, "job_id")
	if !ok {
		return
	}
	var req applyRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	result, err := h.apps.Apply(c.Request.Context(), c.GetInt("userID"), jobID, req.Message)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *ApplicationHandler) Status(c *gin.Context) {
	jobID, ok := pathInt(c, "job_id")
	if !ok {
		return
	}
	state, err := h.apps.CheckStatus(c.Request.Context(), c.GetInt("userID"), jobID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// ListForJob returns the applications a job received. Author only.
func (h *ApplicationHandler) ListForJob(c *gin.Context) {
	jobID, ok := pathInt(c, "job_id")
	if !ok {
		return
	}
	apps, err := h.apps.ListForJob(c.Request.Context(), jobID, c.GetInt("userID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

func (h *ApplicationHandler) ListMine(c *gin.Context) {
	apps, err := h.apps.ListForUser(c.Request.Context(), c.GetInt("userID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

type statusRequest struct {
	Status models.ApplicationStatus `json:"status"`
}

// UpdateStatus accepts or rejects an application.
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	appID, ok := pathInt(c, "application_id")
	if !ok {
		return
	}
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	app, err := h.apps.UpdateStatus(c.Request.Context(), appID, c.GetInt("userID"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

type openChatRequest struct {
	ApplicantID int `json:"applicant_id"`
}

// OpenChat creates or reopens the room of an existing application.
func (h *ApplicationHandler) OpenChat(c *gin.Context) {
	jobID, ok := pathInt(c, "job_id")
	if !ok {
		return
	}
	var req openChatRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	result, err := h.apps.OpenChat(c.Request.Context(), jobID, c.GetInt("userID"), req.ApplicantID)
	if err != nil {
		writeError(c, err)
		return
	}
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}
