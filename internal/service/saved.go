package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flavorcraft/backend/internal/models"
	"github.com/flavorcraft/backend/internal/provider"
)

// SavedRecipeService handles the user's personal recipe collection. A
// save can reference either a persisted recipe by UUID or a cached
// provider result by its provider-scoped id; the latter is materialized
// into a private recipe row first.
type SavedRecipeService struct {
	db    *gorm.DB
	cache *provider.ResultCache
}

func NewSavedRecipeService(db *gorm.DB, cache *provider.ResultCache) *SavedRecipeService {
	return &SavedRecipeService{db: db, cache: cache}
}

// SavedEntry pairs a saved-recipes row with the recipe it references.
type SavedEntry struct {
	Saved  models.SavedRecipe `json:"saved"`
	Recipe models.Recipe      `json:"recipe"`
}

// Save stores recipeRef in the user's collection. UUIDs must name a
// recipe visible to the user; any other id is resolved through the
// provider result cache and materialized. Saving the same recipe twice
// returns ErrDuplicate.
func (s *SavedRecipeService) Save(ctx context.Context, userID uuid.UUID, recipeRef, source string) (*SavedEntry, error) {
	var recipe *models.Recipe

	if recipeID, err := uuid.Parse(recipeRef); err == nil {
		var existing models.Recipe
		if err := s.db.WithContext(ctx).First(&existing, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if !existing.IsPublic && existing.UserID != userID {
			return nil, ErrNotFound
		}
		recipe = &existing
	} else {
		materialized, err := s.materialize(ctx, userID, recipeRef)
		if err != nil {
			return nil, err
		}
		recipe = materialized
	}

	if source == "" {
		source = "recipe_generator"
	}
	saved := models.SavedRecipe{
		UserID:   userID,
		RecipeID: recipe.ID,
		Source:   source,
	}
	if err := s.db.WithContext(ctx).Create(&saved).Error; err != nil {
		switch {
		case isDuplicateKey(err):
			return nil, ErrDuplicate
		case missingRelation(err):
			return nil, ErrFeatureUnavailable
		default:
			return nil, err
		}
	}
	return &SavedEntry{Saved: saved, Recipe: *recipe}, nil
}

// materialize copies a cached provider result into a private recipe row
// owned by the saving user. An expired or unknown id is ErrNotFound.
func (s *SavedRecipeService) materialize(ctx context.Context, userID uuid.UUID, providerID string) (*models.Recipe, error) {
	result, err := s.cache.Get(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrNotFound
	}

	recipe := models.Recipe{
		UserID:       userID,
		Title:        result.Title,
		Description:  result.Description,
		Ingredients:  models.IngredientList(result.Ingredients),
		Instructions: models.InstructionList(result.Instructions),
		PrepTime:     result.PrepTime,
		CookTime:     result.CookTime,
		Servings:     result.Servings,
		Difficulty:   result.Difficulty,
		CuisineType:  result.Cuisine,
		Tags:         models.JSONBStringArray(result.Tags),
		ImageURL:     result.ImageURL,
		IsPublic:     false,
		Source:       result.Source,
		CookingTips:  models.JSONBStringArray(result.CookingTips),
	}
	if result.Nutrition != nil {
		recipe.NutritionInfo = models.NutritionInfo(*result.Nutrition)
	}
	if err := s.db.WithContext(ctx).Create(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Unsave removes a recipe from the user's collection.
func (s *SavedRecipeService) Unsave(ctx context.Context, userID, recipeID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.SavedRecipe{})
	if res.Error != nil {
		if missingRelation(res.Error) {
			return ErrFeatureUnavailable
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the user's collection newest first, each entry carrying
// its full recipe.
func (s *SavedRecipeService) List(ctx context.Context, userID uuid.UUID) ([]SavedEntry, error) {
	var saved []models.SavedRecipe
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("saved_at DESC").
		Find(&saved).Error
	if err != nil {
		if missingRelation(err) {
			return nil, ErrFeatureUnavailable
		}
		return nil, err
	}

	entries := make([]SavedEntry, 0, len(saved))
	for _, row := range saved {
		var recipe models.Recipe
		if err := s.db.WithContext(ctx).First(&recipe, "id = ?", row.RecipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		entries = append(entries, SavedEntry{Saved: row, Recipe: recipe})
	}
	return entries, nil
}

// IsSaved reports whether the user has recipeID in their collection.
func (s *SavedRecipeService) IsSaved(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.SavedRecipe{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		if missingRelation(err) {
			return false, ErrFeatureUnavailable
		}
		return false, err
	}
	return count > 0, nil
}
