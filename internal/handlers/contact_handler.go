package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"catalog-service/internal/events"
	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

type ContactHandler struct {
	repo      *repository.ContactRepository
	publisher *events.Publisher
}

func NewContactHandler(repo *repository.ContactRepository, publisher *events.Publisher) *ContactHandler {
	return &ContactHandler{repo: repo, publisher: publisher}
}

// GetContactInfo returns the company contact details
// GET /api/contact-info
func (h *ContactHandler) GetContactInfo(c *gin.Context) {
	info, err := h.repo.GetContactInfo(c.Request.Context())
	if err != nil {
		contactServerError(c, "Failed to get contact info", err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// UpdateContactInfo updates the company contact details
// PUT /api/contact-info
func (h *ContactHandler) UpdateContactInfo(c *gin.Context) {
	var req models.UpdateContactInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	info, err := h.repo.GetContactInfo(c.Request.Context())
	if err != nil {
		contactServerError(c, "Failed to get contact info", err)
		return
	}

	if req.Email != nil {
		info.Email = *req.Email
	}
	if req.Phone != nil {
		info.Phone = req.Phone
	}
	if req.Address != nil {
		info.Address = req.Address
	}
	if req.Hours != nil {
		info.Hours = req.Hours
	}
	if req.MapURL != nil {
		info.MapURL = req.MapURL
	}

	if err := h.repo.UpdateContactInfo(c.Request.Context(), info); err != nil {
		contactServerError(c, "Failed to update contact info", err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// ListLocations returns all branch locations
// GET /api/locations
func (h *ContactHandler) ListLocations(c *gin.Context) {
	locations, err := h.repo.ListLocations(c.Request.Context())
	if err != nil {
		contactServerError(c, "Failed to list locations", err)
		return
	}
	c.JSON(http.StatusOK, locations)
}

// CreateLocation adds a branch location
// POST /api/locations
func (h *ContactHandler) CreateLocation(c *gin.Context) {
	var req models.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	loc := &models.Location{
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		Phone:   req.Phone,
		Email:   req.Email,
		MapURL:  req.MapURL,
	}
	if err := h.repo.CreateLocation(c.Request.Context(), loc); err != nil {
		contactServerError(c, "Failed to create location", err)
		return
	}
	c.JSON(http.StatusCreated, loc)
}

// UpdateLocation applies a partial update to a location
// PUT /api/locations/:id
func (h *ContactHandler) UpdateLocation(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid location ID"})
		return
	}

	var req models.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	loc, err := h.repo.GetLocationByID(c.Request.Context(), id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Location not found"})
			return
		}
		contactServerError(c, "Failed to get location", err)
		return
	}

	if req.Name != nil {
		loc.Name = *req.Name
	}
	if req.Address != nil {
		loc.Address = *req.Address
	}
	if req.City != nil {
		loc.City = req.City
	}
	if req.Phone != nil {
		loc.Phone = req.Phone
	}
	if req.Email != nil {
		loc.Email = req.Email
	}
	if req.MapURL != nil {
		loc.MapURL = req.MapURL
	}

	if err := h.repo.UpdateLocation(c.Request.Context(), loc); err != nil {
		contactServerError(c, "Failed to update location", err)
		return
	}
	c.JSON(http.StatusOK, loc)
}

// DeleteLocation removes a location
// DELETE /api/locations/:id
func (h *ContactHandler) DeleteLocation(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid location ID"})
		return
	}

	if err := h.repo.DeleteLocation(c.Request.Context(), id); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Location not found"})
			return
		}
		contactServerError(c, "Failed to delete location", err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Location deleted"})
}

// SubmitContactMessage stores a contact form submission
// POST /api/contact
func (h *ContactHandler) SubmitContactMessage(c *gin.Context) {
	var req models.CreateContactMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	msg := &models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := h.repo.CreateContactMessage(c.Request.Context(), msg); err != nil {
		contactServerError(c, "Failed to submit message", err)
		return
	}

	h.publisher.PublishContactMessage(msg)
	c.JSON(http.StatusCreated, models.MessageResponse{Message: "Message received"})
}

// ListContactMessages returns contact form submissions
// GET /api/contact/messages?unread=true
func (h *ContactHandler) ListContactMessages(c *gin.Context) {
	messages, err := h.repo.ListContactMessages(c.Request.Context(), c.Query("unread") == "true")
	if err != nil {
		contactServerError(c, "Failed to list messages", err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// MarkMessageRead flags a contact message as handled
// PUT /api/contact/messages/:id/read
func (h *ContactHandler) MarkMessageRead(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid message ID"})
		return
	}

	if err := h.repo.MarkMessageRead(c.Request.Context(), id); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Message not found"})
			return
		}
		contactServerError(c, "Failed to mark message read", err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Message marked read"})
}

func contactServerError(c *gin.Context, message string, err error) {
	logrus.WithError(err).Error(message)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:     message,
		Details:   err.Error(),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
