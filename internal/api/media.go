package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/flavorcraft/backend/internal/middleware"
	"github.com/flavorcraft/backend/internal/models"
	"github.com/flavorcraft/backend/internal/service"
	"github.com/flavorcraft/backend/internal/types"
)

type MediaHandler struct {
	mediaService service.IMediaService
	authService  service.IAuthService
}

func NewMediaHandler(mediaService service.IMediaService, authService service.IAuthService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService, authService: authService}
}

func (h *MediaHandler) RegisterRoutes(router *gin.RouterGroup) {
	media := router.Group("/media")
	{
		authed := middleware.AuthMiddleware(h.authService)
		media.POST("/upload", authed, h.Upload)
		media.POST("/attach-to-recipe", authed, h.Attach)
		media.DELETE("/:id", authed, h.Remove)
		media.GET("/recipe/:id", h.ListForRecipe)
	}
}

// Upload accepts a multipart form with up to 5 files under the "files"
// field (a single "file" field also works). The media_type form field
// selects the size ceiling. Files are processed best-effort: one bad
// file does not fail the batch, its error is reported alongside the
// uploads that succeeded.
func (h *MediaHandler) Upload(c *gin.Context) {
	mediaType := c.DefaultPostForm("media_type", models.MediaTypeImage)
	if mediaType != models.MediaTypeImage && mediaType != models.MediaTypeVideo {
		c.JSON(http.StatusBadRequest, gin.H{"message": "media_type must be image or video"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "a multipart file upload is required"})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "a file upload is required"})
		return
	}
	if len(files) > service.MaxMediaPerRecipe {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": fmt.Sprintf("at most %d files per upload", service.MaxMediaPerRecipe),
		})
		return
	}

	var (
		uploaded   []types.AttachMediaItem
		fileErrors []gin.H
	)
	for _, fileHeader := range files {
		item, err := h.uploadOne(c, mediaType, fileHeader)
		if err != nil {
			if errors.Is(err, service.ErrFeatureUnavailable) {
				writeServiceError(c, err)
				return
			}
			fileErrors = append(fileErrors, gin.H{"file": fileHeader.Filename, "message": err.Error()})
			continue
		}
		uploaded = append(uploaded, *item)
	}

	status := http.StatusCreated
	if len(uploaded) == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"uploaded": uploaded, "errors": fileErrors})
}

func (h *MediaHandler) uploadOne(c *gin.Context, mediaType string, fileHeader *multipart.FileHeader) (*types.AttachMediaItem, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return h.mediaService.Upload(
		c.Request.Context(),
		currentUserID(c),
		mediaType,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
}

func (h *MediaHandler) Attach(c *gin.Context) {
	var req types.AttachMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "recipe_id and at least one media entry are required"})
		return
	}
	recipeID, err := uuid.Parse(req.RecipeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid recipe_id"})
		return
	}

	attachments, err := h.mediaService.Attach(c.Request.Context(), currentUserID(c), recipeID, req.Media)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"media": attachments})
}

func (h *MediaHandler) ListForRecipe(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	attachments, err := h.mediaService.ListForRecipe(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"media": attachments})
}

func (h *MediaHandler) Remove(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.mediaService.Remove(c.Request.Context(), currentUserID(c), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "media removed"})
}
