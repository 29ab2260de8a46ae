package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/flavorcraft/backend/internal/middleware"
	"github.com/flavorcraft/backend/internal/models"
	"github.com/flavorcraft/backend/internal/provider"
	"github.com/flavorcraft/backend/internal/service"
	"github.com/flavorcraft/backend/internal/types"
)

type RecipeHandler struct {
	recipeService service.IRecipeService
	pantryService service.IPantryService
	authService   service.IAuthService
	chain         *provider.Chain
	cache         *provider.ResultCache
	genLimiter    *middleware.RateLimiter
}

func NewRecipeHandler(
	recipeService service.IRecipeService,
	pantryService service.IPantryService,
	authService service.IAuthService,
	chain *provider.Chain,
	cache *provider.ResultCache,
	genLimiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		pantryService: pantryService,
		authService:   authService,
		chain:         chain,
		cache:         cache,
		genLimiter:    genLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	authed := middleware.AuthMiddleware(h.authService)
	optionalAuth := middleware.OptionalAuthMiddleware(h.authService)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListFeed)
		recipes.GET("/search", optionalAuth, h.SearchRecipes)
		recipes.GET("/:id", optionalAuth, h.GetRecipe)
		recipes.POST("", authed, h.CreateRecipe)
		recipes.PUT("/:id", authed, h.UpdateRecipe)
		recipes.DELETE("/:id", authed, h.DeleteRecipe)
		recipes.PUT("/:id/like", authed, h.ToggleLike)
		recipes.PUT("/:id/bookmark", authed, h.ToggleBookmark)
		recipes.POST("/:id/comments", authed, h.AddComment)

		generate := recipes.Group("/generate", authed)
		if h.genLimiter != nil {
			generate.Use(h.genLimiter.RateLimitMiddleware())
		}
		generate.POST("", h.GenerateRecipe)
	}
}

// ListFeed serves the public community feed with optional filters.
func (h *RecipeHandler) ListFeed(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	recipes, total, err := h.recipeService.ListFeed(c.Request.Context(), service.RecipeFilters{
		Query:      c.Query("q"),
		Cuisine:    c.Query("cuisine"),
		Difficulty: c.Query("difficulty"),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipes": recipes,
		"total":   total,
		"page":    page,
	})
}

// SearchRecipes answers a search from both the community feed and the
// provider chain. External and generated results carry provider-scoped
// ids and are cached so a later save can materialize them.
func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))

	var pantry []types.PantryIngredient
	if raw := c.Query("pantry"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &pantry); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "pantry must be a JSON array of {name, quantity, unit}"})
			return
		}
	} else if c.Query("usePantry") == "true" {
		userID := currentUserID(c)
		if userID == uuid.Nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "authentication required to search with your pantry"})
			return
		}
		items, err := h.pantryService.ListItems(c.Request.Context(), userID)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		for _, item := range items {
			pantry = append(pantry, types.PantryIngredient{
				Name:     item.IngredientName,
				Quantity: item.Quantity,
				Unit:     item.Unit,
			})
		}
	}

	if query == "" && len(pantry) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "a search query or pantry items are required"})
		return
	}

	local, _, err := h.recipeService.ListFeed(c.Request.Context(), service.RecipeFilters{Query: query, Limit: 10})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	external := h.chain.Search(c.Request.Context(), query, pantry)
	if len(external) > 0 {
		if err := h.cache.Put(c.Request.Context(), external...); err != nil {
			// A cold cache only breaks saving these results, not viewing them.
			c.Header("X-Cache-Error", "result cache unavailable")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"community": local,
		"external":  external,
	})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	viewerID := currentUserID(c)

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id, viewerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	stats, err := h.recipeService.Stats(c.Request.Context(), id, viewerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipe": recipe,
		"stats":  stats,
	})
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid recipe payload"})
		return
	}

	recipe, fieldErrors := buildRecipe(&req)
	if len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors})
		return
	}

	created, err := h.recipeService.CreateRecipe(c.Request.Context(), currentUserID(c), recipe)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid recipe payload"})
		return
	}

	recipe, fieldErrors := buildRecipe(&req)
	if len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors})
		return
	}

	updated, err := h.recipeService.UpdateRecipe(c.Request.Context(), id, currentUserID(c), recipe)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.recipeService.DeleteRecipe(c.Request.Context(), id, currentUserID(c)); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe deleted"})
}

func (h *RecipeHandler) ToggleLike(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	liked, count, err := h.recipeService.ToggleLike(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked, "likes": count})
}

func (h *RecipeHandler) ToggleBookmark(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	bookmarked, count, err := h.recipeService.ToggleBookmark(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarked": bookmarked, "bookmarks": count})
}

func (h *RecipeHandler) AddComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req types.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "comment text is required"})
		return
	}

	recipe, err := h.recipeService.AddComment(c.Request.Context(), id, currentUserID(c), strings.TrimSpace(req.Text))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comments": recipe.Comments})
}

// GenerateRecipe authors one recipe from the caller's listed pantry
// items. The result is cached under its provider-scoped id so it can be
// saved afterwards.
func (h *RecipeHandler) GenerateRecipe(c *gin.Context) {
	var req types.GenerateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "at least one pantry item is required"})
		return
	}

	result := h.chain.Generate(c.Request.Context(), req.PantryItems, req.Preferences)
	if result == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "recipe generation failed"})
		return
	}
	if err := h.cache.Put(c.Request.Context(), *result); err != nil {
		c.Header("X-Cache-Error", "result cache unavailable")
	}

	c.JSON(http.StatusOK, gin.H{"recipe": result})
}

// buildRecipe validates a create/update request field by field and
// normalizes the content before anything touches the database: blank
// ingredient and instruction entries are dropped, steps are renumbered
// contiguously from 1 and the difficulty label is canonicalized.
func buildRecipe(req *types.CreateRecipeRequest) (*models.Recipe, []types.FieldError) {
	var fieldErrors []types.FieldError
	addError := func(field, message string) {
		fieldErrors = append(fieldErrors, types.FieldError{Field: field, Message: message})
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		addError("title", "title is required")
	} else if len(title) > 200 {
		addError("title", "title must be at most 200 characters")
	}

	ingredients := make(models.IngredientList, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		name := strings.TrimSpace(ing.Name)
		if name == "" {
			continue
		}
		category := ing.Category
		if !models.ValidCategory(category) {
			category = provider.CategorizeIngredient(name)
		}
		ingredients = append(ingredients, models.Ingredient{
			Name:     name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
			Category: category,
		})
	}
	if len(ingredients) == 0 {
		addError("ingredients", "at least one ingredient is required")
	}

	instructions := make(models.InstructionList, 0, len(req.Instructions))
	for _, inst := range req.Instructions {
		desc := strings.TrimSpace(inst.Description)
		if desc == "" {
			continue
		}
		instructions = append(instructions, models.Instruction{
			Step:        len(instructions) + 1,
			Description: desc,
			Duration:    inst.Duration,
		})
	}
	if len(instructions) == 0 {
		addError("instructions", "at least one instruction is required")
	}

	prepTime := 0
	if req.PrepTime != nil {
		if *req.PrepTime < 0 {
			addError("prep_time", "prep time cannot be negative")
		} else {
			prepTime = *req.PrepTime
		}
	}
	cookTime := 0
	if req.CookTime != nil {
		if *req.CookTime < 0 {
			addError("cook_time", "cook time cannot be negative")
		} else {
			cookTime = *req.CookTime
		}
	}
	servings := 4
	if req.Servings != nil {
		if *req.Servings < 1 {
			addError("servings", "servings must be at least 1")
		} else {
			servings = *req.Servings
		}
	}

	difficulty := models.DifficultyEasy
	if req.Difficulty != "" {
		difficulty = models.NormalizeDifficulty(req.Difficulty)
		if difficulty == "" {
			addError("difficulty", "difficulty must be easy, medium or hard")
		}
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	if len(fieldErrors) > 0 {
		return nil, fieldErrors
	}

	return &models.Recipe{
		Title:        title,
		Description:  strings.TrimSpace(req.Description),
		Ingredients:  ingredients,
		Instructions: instructions,
		PrepTime:     prepTime,
		CookTime:     cookTime,
		Servings:     servings,
		Difficulty:   difficulty,
		CuisineType:  strings.TrimSpace(req.Cuisine),
		Tags:         models.JSONBStringArray(req.Tags),
		ImageURL:     req.ImageURL,
		IsPublic:     isPublic,
		Source:       models.SourceUser,
	}, nil
}
