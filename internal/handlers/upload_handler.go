package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
	"catalog-service/internal/uploads"
)

type UploadHandler struct {
	store *uploads.Store
}

func NewUploadHandler(store *uploads.Store) *UploadHandler {
	return &UploadHandler{store: store}
}

// UploadFile saves a file under the named upload kind and returns its URL
// POST /api/upload/:kind
func (h *UploadHandler) UploadFile(c *gin.Context) {
	kindName := c.Param("kind")
	if _, ok := h.store.Kind(kindName); !ok {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Unknown upload type"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "No file uploaded"})
		return
	}

	path, url, err := h.store.Save(c, file, kindName)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	logrus.WithFields(logrus.Fields{
		"kind": kindName,
		"path": path,
	}).Info("File uploaded")

	c.JSON(http.StatusCreated, gin.H{
		"url":      url,
		"filename": file.Filename,
	})
}
