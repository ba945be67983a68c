package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

type JobsHandler struct {
	repo *repository.JobsRepository
}

func NewJobsHandler(repo *repository.JobsRepository) *JobsHandler {
	return &JobsHandler{repo: repo}
}

// ListJobs returns job listings; pass all=true to include closed positions
// GET /api/jobs
func (h *JobsHandler) ListJobs(c *gin.Context) {
	activeOnly := c.Query("all") != "true"
	jobs, err := h.repo.ListJobs(c.Request.Context(), activeOnly)
	if err != nil {
		jobServerError(c, "Failed to list jobs", err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// GetJob returns a job listing by ID
// GET /api/jobs/:id
func (h *JobsHandler) GetJob(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid job ID"})
		return
	}

	job, err := h.repo.GetJobByID(c.Request.Context(), id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Job not found"})
			return
		}
		jobServerError(c, "Failed to get job", err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// CreateJob creates a job listing
// POST /api/jobs
func (h *JobsHandler) CreateJob(c *gin.Context) {
	var req models.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	job := &models.Job{
		Title:        req.Title,
		Department:   req.Department,
		Location:     req.Location,
		Type:         req.Type,
		Description:  req.Description,
		Requirements: req.Requirements,
		Active:       active,
	}
	if err := h.repo.CreateJob(c.Request.Context(), job); err != nil {
		jobServerError(c, "Failed to create job", err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// UpdateJob applies a partial update to a job listing
// PUT /api/jobs/:id
func (h *JobsHandler) UpdateJob(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid job ID"})
		return
	}

	var req models.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	job, err := h.repo.GetJobByID(c.Request.Context(), id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Job not found"})
			return
		}
		jobServerError(c, "Failed to get job", err)
		return
	}

	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Department != nil {
		job.Department = req.Department
	}
	if req.Location != nil {
		job.Location = req.Location
	}
	if req.Type != nil {
		job.Type = req.Type
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Requirements != nil {
		job.Requirements = req.Requirements
	}
	if req.Active != nil {
		job.Active = *req.Active
	}

	if err := h.repo.UpdateJob(c.Request.Context(), job); err != nil {
		jobServerError(c, "Failed to update job", err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// DeleteJob removes a job listing
// DELETE /api/jobs/:id
func (h *JobsHandler) DeleteJob(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid job ID"})
		return
	}

	if err := h.repo.DeleteJob(c.Request.Context(), id); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Job not found"})
			return
		}
		jobServerError(c, "Failed to delete job", err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Job deleted"})
}

func jobServerError(c *gin.Context, message string, err error) {
	logrus.WithError(err).Error(message)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:     message,
		Details:   err.Error(),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
