package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"senior-house/internal/models"
	"senior-house/internal/services"
)

// ApplicationStatusChecker annotates job lists with the caller's applications.
type ApplicationStatusChecker interface {
	CheckStatuses(ctx context.Context, userID int, jobIDs []int) (map[int]models.ApplicationState, error)
}

// JobHandler serves job postings, search and bookmarks.
type JobHandler struct {
	jobs     *services.JobService
	statuses ApplicationStatusChecker
}

func NewJobHandler(jobs *services.JobService, statuses ApplicationStatusChecker) *JobHandler {
	return &JobHandler{jobs: jobs, statuses: statuses}
}

// jobItem is a posting plus the caller's relation to it.
type jobItem struct {
	models.JobPost
	Bookmarked  bool                     `json:"bookmarked"`
	Application *models.ApplicationState `json:"application,omitempty"`
}

func (h *JobHandler) annotate(ctx context.Context, userID int, posts []models.JobPost) ([]jobItem, error) {
	items := make([]jobItem, len(posts))
	ids := make([]int, len(posts))
	for i, p := range posts {
		items[i] = jobItem{JobPost: p}
		ids[i] = p.ID
	}
	if userID == 0 || len(posts) == 0 {
		return items, nil
	}

	saved, err := h.jobs.BookmarkedAmong(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	states, err := h.statuses.CheckStatuses(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Bookmarked = saved[items[i].ID]
		state := states[items[i].ID]
		items[i].Application = &state
	}
	return items, nil
}

// List searches postings. Signed-in callers also get bookmark and application state.
func (h *JobHandler) List(c *gin.Context) {
	filter := models.JobFilter{
		Query:           c.Query("q"),
		Region:          c.Query("region"),
		RecruitmentType: c.Query("recruitment_type"),
		WorkPeriod:      c.Query("work_period"),
		Kind:            models.PostingKind(c.Query("kind")),
		Sort:            models.ParseJobSort(c.Query("sort")),
		Page:            queryInt(c, "page", 1),
		PerPage:         queryInt(c, "per_page", models.DefaultPerPage),
	}
	page, err := h.jobs.Search(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	items, err := h.annotate(c.Request.Context(), c.GetInt("userID"), page.Items)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":    items,
		"total":    page.Total,
		"page":     page.Page,
		"per_page": page.PerPage,
	})
}

func (h *JobHandler) Create(c *gin.Context) {
	var req models.PostingRequest
	if !bindJSON(c, &req) {
		return
	}
	post, err := h.jobs.Create(c.Request.Context(), c.GetInt("userID"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// Get returns a posting and counts the view.
func (h *JobHandler) Get(c *gin.Context) {
	jobID, ok := pathInt(c, "job_id")
	if !ok {
		return
	}
	post, err := h.jobs.View(c.Request.Context(), jobID)
	if err != nil {
		writeError(c, err)
		return
	}
	items, err := h.annotate(c.Request.Context(), c.GetInt("userID"), []models.JobPost{post})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items[0])
}

func (h *JobHandler) Update(c *gin.Context) {
	jobID, ok := pathInt(c, "job_id")
	if !ok {
		return
	}
	var req models.PostingRequest
	if !bindJSON(c, &req) {
		return
	}
	post, err := h.jobs.Update(c.Request.Context(), jobID, c.GetInt("userID"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *JobHandler) Delete(c *gin.Context) {
	jobID, ok := pathInt(c, "job_id")
	if !ok {
		return
	}
	if err := h.jobs.Delete(c.Request.Context(), jobID, c.GetInt("userID")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleBookmark saves or unsaves the job for the caller.
func (h *JobHandler) ToggleBookmark(c *gin.Context) {
	jobID, ok := pathInt(c, "job_id")
	if !ok {
		return
	}
	result, err := h.jobs.ToggleBookmark(c.Request.Context(), c.GetInt("userID"), jobID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *JobHandler) ListBookmarks(c *gin.Context) {
	jobs, err := h.jobs.ListBookmarks(c.Request.Context(), c.GetInt("userID"), models.ParseJobSort(c.Query("sort")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}
