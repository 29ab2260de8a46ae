package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/flavorcraft/backend/internal/models"
	"github.com/flavorcraft/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	GenerateToken(userID uuid.UUID) (string, error)
	AuthenticateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.User, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, userID uuid.UUID, recipe *models.Recipe) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID, viewerID uuid.UUID) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, id, ownerID uuid.UUID, updated *models.Recipe) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, id, ownerID uuid.UUID) error
	ListFeed(ctx context.Context, filters RecipeFilters) ([]models.Recipe, int64, error)
	ListUserRecipes(ctx context.Context, userID, viewerID uuid.UUID) ([]models.Recipe, error)
	UserStats(ctx context.Context, userID uuid.UUID) (*UserStats, error)
	ToggleLike(ctx context.Context, recipeID, userID uuid.UUID) (bool, int64, error)
	ToggleBookmark(ctx context.Context, recipeID, userID uuid.UUID) (bool, int64, error)
	AddComment(ctx context.Context, recipeID, userID uuid.UUID, text string) (*models.Recipe, error)
	Stats(ctx context.Context, recipeID, viewerID uuid.UUID) (*RecipeStats, error)
}

// IPantryService defines the interface for pantry operations
type IPantryService interface {
	ListItems(ctx context.Context, userID uuid.UUID) ([]models.PantryItem, error)
	ListByCategory(ctx context.Context, userID uuid.UUID) (map[string][]models.PantryItem, error)
	AddItem(ctx context.Context, userID uuid.UUID, item *models.PantryItem) (*models.PantryItem, error)
	UpdateItem(ctx context.Context, id, userID uuid.UUID, apply func(*models.PantryItem)) (*models.PantryItem, error)
	DeleteItem(ctx context.Context, id, userID uuid.UUID) error
}

// ISavedRecipeService defines the interface for saved recipe operations
type ISavedRecipeService interface {
	Save(ctx context.Context, userID uuid.UUID, recipeRef, source string) (*SavedEntry, error)
	Unsave(ctx context.Context, userID, recipeID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]SavedEntry, error)
	IsSaved(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
}

// IMediaService defines the interface for media operations
type IMediaService interface {
	Upload(ctx context.Context, userID uuid.UUID, mediaType, fileName, contentType string, size int64, body io.Reader) (*types.AttachMediaItem, error)
	Attach(ctx context.Context, userID, recipeID uuid.UUID, items []types.AttachMediaItem) ([]models.MediaAttachment, error)
	ListForRecipe(ctx context.Context, recipeID uuid.UUID) ([]models.MediaAttachment, error)
	Remove(ctx context.Context, userID, attachmentID uuid.UUID) error
}
