package handler

import (
	mediaapp "github.com/mecanicpro/backend/internal/application/media"
	"github.com/gin-gonic/gin"
)

// MediaHandler handles image upload and download API endpoints
type MediaHandler struct {
	BaseHandler
	mediaService *mediaapp.Service
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(mediaService *mediaapp.Service) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
	}
}

// RequestUploadRequest asks for a presigned upload slot
type RequestUploadRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=vehicle order logo"`
	ContentType string `json:"content_type" binding:"required"`
}

// DownloadURLResponse carries a presigned download URL
type DownloadURLResponse struct {
	URL string `json:"url"`
}

// RequestUpload godoc
// @ID           requestImageUpload
// @Summary      Request image upload
// @Description  Get a presigned URL the client can PUT an image to
// @Tags         media
// @Accept       json
// @Produce      json
// @Param        request body RequestUploadRequest true "Image kind and content type"
// @Success      201 {object} APIResponse[media.UploadSlot]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /media/uploads [post]
func (h *MediaHandler) RequestUpload(c *gin.Context) {
	var req RequestUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	slot, err := h.mediaService.RequestUpload(c.Request.Context(), mediaapp.ImageKind(req.Kind), req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, slot)
}

// ResolveDownloadURL godoc
// @ID           resolveImageDownloadURL
// @Summary      Resolve image download URL
// @Description  Resolve a stored image key into a presigned download URL
// @Tags         media
// @Produce      json
// @Param        key query string true "Storage key"
// @Success      200 {object} APIResponse[DownloadURLResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /media/download-url [get]
func (h *MediaHandler) ResolveDownloadURL(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		h.BadRequest(c, "Storage key is required")
		return
	}

	url, err := h.mediaService.ResolveDownloadURL(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, DownloadURLResponse{URL: url})
}

// DeleteImage godoc
// @ID           deleteImage
// @Summary      Delete image
// @Description  Delete a stored image by its storage key
// @Tags         media
// @Produce      json
// @Param        key query string true "Storage key"
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /media [delete]
func (h *MediaHandler) DeleteImage(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		h.BadRequest(c, "Storage key is required")
		return
	}

	if err := h.mediaService.DeleteImage(c.Request.Context(), key); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
