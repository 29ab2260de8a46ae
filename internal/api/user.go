package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flavorcraft/backend/internal/middleware"
	"github.com/flavorcraft/backend/internal/models"
	"github.com/flavorcraft/backend/internal/service"
	"github.com/flavorcraft/backend/internal/types"
)

type UserHandler struct {
	authService   service.IAuthService
	recipeService service.IRecipeService
}

func NewUserHandler(authService service.IAuthService, recipeService service.IRecipeService) *UserHandler {
	return &UserHandler{authService: authService, recipeService: recipeService}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	authed := middleware.AuthMiddleware(h.authService)

	users := router.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
		users.GET("/profile", authed, h.GetProfile)
		users.PUT("/profile", authed, h.UpdateProfile)
		users.GET("/posts", authed, h.GetMyRecipes)
		users.GET("/:id", h.GetPublicProfile)
		users.GET("/:id/recipes", middleware.OptionalAuthMiddleware(h.authService), h.GetUserRecipes)
	}
}

// userResponse strips the credential fields off a user for transport.
type userResponse struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Email       string                 `json:"email,omitempty"`
	AvatarURL   string                 `json:"avatar_url,omitempty"`
	Preferences models.UserPreferences `json:"preferences"`
	CreatedAt   string                 `json:"created_at"`
}

func toUserResponse(u *models.User, includeEmail bool) userResponse {
	resp := userResponse{
		ID:          u.ID.String(),
		Name:        u.Name,
		AvatarURL:   u.AvatarURL,
		Preferences: u.Preferences,
		CreatedAt:   u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if includeEmail {
		resp.Email = u.Email
	}
	return resp
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "name, email and a password of at least 8 characters are required"})
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if err == service.ErrDuplicate {
			c.JSON(http.StatusConflict, gin.H{"message": "an account with this email already exists"})
			return
		}
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  toUserResponse(user, true),
	})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and password are required"})
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  toUserResponse(user, true),
	})
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := currentUserID(c)
	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	stats, err := h.recipeService.UserStats(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  toUserResponse(user, true),
		"stats": stats,
	})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req types.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid profile payload"})
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user, true))
}

func (h *UserHandler) GetMyRecipes(c *gin.Context) {
	userID := currentUserID(c)
	recipes, err := h.recipeService.ListUserRecipes(c.Request.Context(), userID, userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// GetPublicProfile serves another user's profile without their email.
func (h *UserHandler) GetPublicProfile(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, err := h.authService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user, false))
}

// GetUserRecipes serves a user's public recipes to any viewer.
func (h *UserHandler) GetUserRecipes(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	recipes, err := h.recipeService.ListUserRecipes(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}
