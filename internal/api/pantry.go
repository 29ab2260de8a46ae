package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flavorcraft/backend/internal/middleware"
	"github.com/flavorcraft/backend/internal/models"
	"github.com/flavorcraft/backend/internal/provider"
	"github.com/flavorcraft/backend/internal/service"
	"github.com/flavorcraft/backend/internal/types"
)

type PantryHandler struct {
	pantryService service.IPantryService
	authService   service.IAuthService
}

func NewPantryHandler(pantryService service.IPantryService, authService service.IAuthService) *PantryHandler {
	return &PantryHandler{pantryService: pantryService, authService: authService}
}

func (h *PantryHandler) RegisterRoutes(router *gin.RouterGroup) {
	pantry := router.Group("/pantry", middleware.AuthMiddleware(h.authService))
	{
		pantry.GET("", h.ListItems)
		pantry.GET("/categories", h.ListByCategory)
		pantry.POST("", h.AddItem)
		pantry.PUT("/items/:id", h.UpdateItem)
		pantry.DELETE("/items/:id", h.DeleteItem)
	}
}

func (h *PantryHandler) ListItems(c *gin.Context) {
	items, err := h.pantryService.ListItems(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *PantryHandler) ListByCategory(c *gin.Context) {
	grouped, err := h.pantryService.ListByCategory(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": grouped})
}

func (h *PantryHandler) AddItem(c *gin.Context) {
	var req types.CreatePantryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid pantry item payload"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ingredient name is required"})
		return
	}

	category := req.Category
	if category == "" {
		category = provider.CategorizeIngredient(name)
	} else if !models.ValidCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "unknown category"})
		return
	}

	item := models.PantryItem{
		IngredientName: name,
		Quantity:       req.Quantity,
		Unit:           req.Unit,
		Category:       category,
	}
	if req.ExpiryDate != nil {
		expiry, err := time.Parse("2006-01-02", *req.ExpiryDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "expiry_date must be YYYY-MM-DD"})
			return
		}
		item.ExpiryDate = &expiry
	}

	created, err := h.pantryService.AddItem(c.Request.Context(), currentUserID(c), &item)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *PantryHandler) UpdateItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req types.UpdatePantryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid pantry item payload"})
		return
	}
	if req.Category != nil && !models.ValidCategory(*req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "unknown category"})
		return
	}
	var expiry *time.Time
	if req.ExpiryDate != nil && *req.ExpiryDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.ExpiryDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "expiry_date must be YYYY-MM-DD"})
			return
		}
		expiry = &parsed
	}

	item, err := h.pantryService.UpdateItem(c.Request.Context(), id, currentUserID(c), func(item *models.PantryItem) {
		if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
			item.IngredientName = strings.TrimSpace(*req.Name)
		}
		if req.Quantity != nil {
			item.Quantity = *req.Quantity
		}
		if req.Unit != nil {
			item.Unit = *req.Unit
		}
		if req.Category != nil {
			item.Category = *req.Category
		}
		if req.ExpiryDate != nil {
			item.ExpiryDate = expiry
		}
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *PantryHandler) DeleteItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.pantryService.DeleteItem(c.Request.Context(), id, currentUserID(c)); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "pantry item deleted"})
}
