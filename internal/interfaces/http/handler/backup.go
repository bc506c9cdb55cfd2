package handler

import (
	backupapp "github.com/mecanicpro/backend/internal/application/backup"
	"github.com/gin-gonic/gin"
)

// BackupHandler handles backup export and import API endpoints
type BackupHandler struct {
	BaseHandler
	backupService *backupapp.Service
}

// NewBackupHandler creates a new BackupHandler
func NewBackupHandler(backupService *backupapp.Service) *BackupHandler {
	return &BackupHandler{
		backupService: backupService,
	}
}

// Export godoc
// @ID           exportBackup
// @Summary      Export backup
// @Description  Export the full workshop dataset as a portable JSON document
// @Tags         backup
// @Produce      json
// @Success      200 {object} APIResponse[backup.Document]
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /backup/export [get]
func (h *BackupHandler) Export(c *gin.Context) {
	doc, err := h.backupService.Export(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// Import godoc
// @ID           importBackup
// @Summary      Import backup
// @Description  Replace the workshop dataset with the contents of a backup document
// @Tags         backup
// @Accept       json
// @Produce      json
// @Param        request body backup.Document true "Backup document"
// @Success      200 {object} APIResponse[any]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /backup/import [post]
func (h *BackupHandler) Import(c *gin.Context) {
	var doc backupapp.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		h.BadRequest(c, "Invalid backup document: "+err.Error())
		return
	}

	if err := h.backupService.Import(c.Request.Context(), &doc); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"message": "Backup imported successfully",
	})
}
