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

type DriversHandler struct {
	repo *repository.DriversRepository
}

func NewDriversHandler(repo *repository.DriversRepository) *DriversHandler {
	return &DriversHandler{repo: repo}
}

// ListDrivers returns driver downloads, optionally filtered
// GET /api/drivers?brand=&category=
func (h *DriversHandler) ListDrivers(c *gin.Context) {
	drivers, err := h.repo.ListDrivers(c.Request.Context(), c.Query("brand"), c.Query("category"))
	if err != nil {
		driverServerError(c, "Failed to list drivers", err)
		return
	}
	c.JSON(http.StatusOK, drivers)
}

// GetDriver returns a driver download by ID
// GET /api/drivers/:id
func (h *DriversHandler) GetDriver(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid driver ID"})
		return
	}

	driver, err := h.repo.GetDriverByID(c.Request.Context(), id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Driver not found"})
			return
		}
		driverServerError(c, "Failed to get driver", err)
		return
	}
	c.JSON(http.StatusOK, driver)
}

// CreateDriver registers a driver download
// POST /api/drivers
func (h *DriversHandler) CreateDriver(c *gin.Context) {
	var req models.CreateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	driver := &models.Driver{
		Name:        req.Name,
		Brand:       req.Brand,
		Category:    req.Category,
		Version:     req.Version,
		OS:          req.OS,
		Description: req.Description,
		FileURL:     req.FileURL,
		FileSize:    req.FileSize,
	}
	if err := h.repo.CreateDriver(c.Request.Context(), driver); err != nil {
		driverServerError(c, "Failed to create driver", err)
		return
	}
	c.JSON(http.StatusCreated, driver)
}

// UpdateDriver applies a partial update to a driver download
// PUT /api/drivers/:id
func (h *DriversHandler) UpdateDriver(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid driver ID"})
		return
	}

	var req models.UpdateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	driver, err := h.repo.GetDriverByID(c.Request.Context(), id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Driver not found"})
			return
		}
		driverServerError(c, "Failed to get driver", err)
		return
	}

	if req.Name != nil {
		driver.Name = *req.Name
	}
	if req.Brand != nil {
		driver.Brand = req.Brand
	}
	if req.Category != nil {
		driver.Category = req.Category
	}
	if req.Version != nil {
		driver.Version = req.Version
	}
	if req.OS != nil {
		driver.OS = req.OS
	}
	if req.Description != nil {
		driver.Description = req.Description
	}
	if req.FileURL != nil {
		driver.FileURL = *req.FileURL
	}
	if req.FileSize != nil {
		driver.FileSize = req.FileSize
	}

	if err := h.repo.UpdateDriver(c.Request.Context(), driver); err != nil {
		driverServerError(c, "Failed to update driver", err)
		return
	}
	c.JSON(http.StatusOK, driver)
}

// DeleteDriver removes a driver download
// DELETE /api/drivers/:id
func (h *DriversHandler) DeleteDriver(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid driver ID"})
		return
	}

	if err := h.repo.DeleteDriver(c.Request.Context(), id); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Driver not found"})
			return
		}
		driverServerError(c, "Failed to delete driver", err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Driver deleted"})
}

// DownloadDriver bumps the download counter and redirects to the file
// GET /api/drivers/:id/download
func (h *DriversHandler) DownloadDriver(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid driver ID"})
		return
	}

	driver, err := h.repo.GetDriverByID(c.Request.Context(), id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Driver not found"})
			return
		}
		driverServerError(c, "Failed to get driver", err)
		return
	}

	if err := h.repo.IncrementDownloads(c.Request.Context(), id); err != nil {
		logrus.WithError(err).WithField("driverId", id).Warn("Failed to increment download counter")
	}
	c.Redirect(http.StatusFound, driver.FileURL)
}

func driverServerError(c *gin.Context, message string, err error) {
	logrus.WithError(err).Error(message)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:     message,
		Details:   err.Error(),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
