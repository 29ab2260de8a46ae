package types

import (
	"github.com/flavorcraft/backend/internal/models"
)

// RegisterRequest represents the request body for user registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest represents the request body for profile updates.
// Pointer fields distinguish "not sent" from "clear".
type UpdateProfileRequest struct {
	Name        *string                 `json:"name" binding:"omitempty,min=2,max=100"`
	AvatarURL   *string                 `json:"avatar_url"`
	Preferences *models.UserPreferences `json:"preferences"`
}

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Ingredients  []models.Ingredient  `json:"ingredients"`
	Instructions []models.Instruction `json:"instructions"`
	PrepTime     *int                 `json:"prep_time"`
	CookTime     *int                 `json:"cook_time"`
	Servings     *int                 `json:"servings"`
	Difficulty   string               `json:"difficulty"`
	Cuisine      string               `json:"cuisine"`
	Tags         []string             `json:"tags"`
	ImageURL     string               `json:"image_url"`
	IsPublic     *bool                `json:"is_public"`
}

// UpdateRecipeRequest reuses the create shape; updates require the same
// fields the original create does.
type UpdateRecipeRequest = CreateRecipeRequest

// AddCommentRequest represents the request body for commenting on a recipe
type AddCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// GenerateRecipeRequest represents the request body for AI recipe generation
type GenerateRecipeRequest struct {
	PantryItems []PantryIngredient  `json:"pantryItems" binding:"required,min=1"`
	Preferences GeneratePreferences `json:"preferences"`
}

// CreatePantryItemRequest represents the request body for adding a pantry item
type CreatePantryItemRequest struct {
	Name       string  `json:"name"`
	Quantity   string  `json:"quantity"`
	Unit       string  `json:"unit"`
	Category   string  `json:"category"`
	ExpiryDate *string `json:"expiry_date"`
}

// UpdatePantryItemRequest represents the request body for updating a pantry item
type UpdatePantryItemRequest struct {
	Name       *string `json:"name"`
	Quantity   *string `json:"quantity"`
	Unit       *string `json:"unit"`
	Category   *string `json:"category"`
	ExpiryDate *string `json:"expiry_date"`
}

// SaveRecipeRequest represents the request body for saving a recipe.
// RecipeID is either a persisted recipe UUID or a provider-scoped id from
// a prior search/generate response.
type SaveRecipeRequest struct {
	RecipeID string `json:"recipe_id" binding:"required"`
	Source   string `json:"source"`
}

// AttachMediaItem is one uploaded object to link to a recipe.
type AttachMediaItem struct {
	MediaType    string `json:"media_type" binding:"required,oneof=image video"`
	StoragePath  string `json:"storage_path" binding:"required"`
	StorageURL   string `json:"storage_url" binding:"required,url"`
	ThumbnailURL string `json:"thumbnail_url"`
	FileName     string `json:"file_name" binding:"required"`
	FileSize     int64  `json:"file_size" binding:"required,min=1"`
	OrderIndex   int    `json:"order_index"`
}

// AttachMediaRequest represents the request body for attaching media to a recipe
type AttachMediaRequest struct {
	RecipeID string            `json:"recipe_id" binding:"required,uuid"`
	Media    []AttachMediaItem `json:"media" binding:"required,min=1,dive"`
}

// FieldError is one entry of a validation error list.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
