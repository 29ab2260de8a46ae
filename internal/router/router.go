package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flavorcraft/backend/internal/api"
	"github.com/flavorcraft/backend/internal/middleware"
)

// Handlers bundles every route-owning handler the router mounts.
type Handlers struct {
	User   *api.UserHandler
	Recipe *api.RecipeHandler
	Pantry *api.PantryHandler
	Saved  *api.SavedRecipeHandler
	Media  *api.MediaHandler
}

// SetupRouter configures the application routes
func SetupRouter(handlers Handlers, allowedOrigins []string) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS(allowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api")
	{
		handlers.User.RegisterRoutes(apiGroup)
		handlers.Recipe.RegisterRoutes(apiGroup)
		handlers.Pantry.RegisterRoutes(apiGroup)
		handlers.Saved.RegisterRoutes(apiGroup)
		handlers.Media.RegisterRoutes(apiGroup)
	}

	return router
}
