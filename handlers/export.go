package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"glassclass/services"

	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	records *services.RecordStore
}

func NewExportHandler(records *services.RecordStore) *ExportHandler {
	return &ExportHandler{records: records}
}

func (h *ExportHandler) ExportCSV(c *gin.Context) {
	rows, err := h.records.ListAllByIDAscending(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	var buf bytes.Buffer
	if err := services.WriteCSV(&buf, rows); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "csv export failed"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", services.ExportFilename))
	c.Data(http.StatusOK, services.ExportContentType, buf.Bytes())
}
