package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"senior-house/internal/models"
	"senior-house/internal/services"
)

// ResumeHandler serves the caller's resume and certificates.
type ResumeHandler struct {
	resumes *services.ResumeService
}

func NewResumeHandler(resumes *services.ResumeService) *ResumeHandler {
	return &ResumeHandler{resumes: resumes}
}

func (h *ResumeHandler) Get(c *gin.Context) {
	resume, err := h.resumes.Get(c.Request.Context(), c.GetInt("userID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resume)
}

// GetPublic shows another user's resume when it is public.
func (h *ResumeHandler) GetPublic(c *gin.Context) {
	ownerID, ok := pathInt(c, "user_id")
	if !ok {
		return
	}
	resume, err := h.resumes.GetPublic(c.Request.Context(), ownerID, c.GetInt("userID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resume)
}

func (h *ResumeHandler) Upsert(c *gin.Context) {
	var req models.ResumeRequest
	if !bindJSON(c, &req) {
		return
	}
	resume, err := h.resumes.Upsert(c.Request.Context(), c.GetInt("userID"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resume)
}

// AddCertificate takes a "name" field and an image in "file".
func (h *ResumeHandler) AddCertificate(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		writeError(c, models.Validationf("name is required"))
		return
	}
	upload, ok := formFile(c, "file")
	if !ok {
		return
	}
	defer upload.File.Close()

	cert, err := h.resumes.AddCertificate(c.Request.Context(), c.GetInt("userID"), name, upload.Name, upload.ContentType, upload.File)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cert)
}

func (h *ResumeHandler) DeleteCertificate(c *gin.Context) {
	certID, ok := pathInt(c, "cert_id")
	if !ok {
		return
	}
	if err := h.resumes.DeleteCertificate(c.Request.Context(), c.GetInt("userID"), certID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
