package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flavorcraft/backend/internal/middleware"
	"github.com/flavorcraft/backend/internal/service"
	"github.com/flavorcraft/backend/internal/types"
)

type SavedRecipeHandler struct {
	savedService service.ISavedRecipeService
	authService  service.IAuthService
}

func NewSavedRecipeHandler(savedService service.ISavedRecipeService, authService service.IAuthService) *SavedRecipeHandler {
	return &SavedRecipeHandler{savedService: savedService, authService: authService}
}

func (h *SavedRecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	saved := router.Group("/saved-recipes", middleware.AuthMiddleware(h.authService))
	{
		saved.GET("/saved", h.List)
		saved.POST("/save", h.Save)
		saved.GET("/is-saved/:id", h.IsSaved)
		saved.DELETE("/unsave/:id", h.Unsave)
	}
}

func (h *SavedRecipeHandler) List(c *gin.Context) {
	entries, err := h.savedService.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved_recipes": entries})
}

func (h *SavedRecipeHandler) Save(c *gin.Context) {
	var req types.SaveRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "recipe_id is required"})
		return
	}

	entry, err := h.savedService.Save(c.Request.Context(), currentUserID(c), req.RecipeID, req.Source)
	if err != nil {
		if err == service.ErrDuplicate {
			c.JSON(http.StatusConflict, gin.H{"message": "recipe is already saved"})
			return
		}
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *SavedRecipeHandler) IsSaved(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	saved, err := h.savedService.IsSaved(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_saved": saved})
}

func (h *SavedRecipeHandler) Unsave(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.savedService.Unsave(c.Request.Context(), currentUserID(c), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe removed from saved"})
}
