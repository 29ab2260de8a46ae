package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flavorcraft/backend/internal/models"
)

// RecipeService handles recipe persistence, the community feed and the
// per-recipe social state.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// RecipeFilters narrows the community feed. Query matches title and
// description case-insensitively; page numbering starts at 1.
type RecipeFilters struct {
	Query      string
	Cuisine    string
	Difficulty string
	Page       int
	Limit      int
}

// RecipeStats is the social state attached to a recipe in responses.
type RecipeStats struct {
	Likes      int64 `json:"likes"`
	Bookmarks  int64 `json:"bookmarks"`
	IsLiked    bool  `json:"is_liked"`
	IsSaved    bool  `json:"is_saved"`
	IsBookmark bool  `json:"is_bookmarked"`
}

// UserStats summarizes a user's authoring activity for their profile.
type UserStats struct {
	Recipes       int64 `json:"recipes"`
	PublicRecipes int64 `json:"public_recipes"`
	LikesReceived int64 `json:"likes_received"`
}

// CreateRecipe persists a recipe owned by userID.
func (s *RecipeService) CreateRecipe(ctx context.Context, userID uuid.UUID, recipe *models.Recipe) (*models.Recipe, error) {
	recipe.UserID = userID
	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

// GetRecipe returns a recipe visible to viewerID: public recipes are
// visible to everyone, private ones only to their owner. A private
// recipe viewed by someone else reports ErrNotFound rather than
// existence.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID, viewerID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !recipe.IsPublic && recipe.UserID != viewerID {
		return nil, ErrNotFound
	}
	return &recipe, nil
}

// UpdateRecipe overwrites a recipe's content fields. Only the owner may
// update; everyone else gets ErrNotOwner.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id, ownerID uuid.UUID, updated *models.Recipe) (*models.Recipe, error) {
	recipe, err := s.requireOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	recipe.Title = updated.Title
	recipe.Description = updated.Description
	recipe.Ingredients = updated.Ingredients
	recipe.Instructions = updated.Instructions
	recipe.PrepTime = updated.PrepTime
	recipe.CookTime = updated.CookTime
	recipe.Servings = updated.Servings
	recipe.Difficulty = updated.Difficulty
	recipe.CuisineType = updated.CuisineType
	recipe.Tags = updated.Tags
	recipe.ImageURL = updated.ImageURL
	recipe.IsPublic = updated.IsPublic

	if err := s.db.WithContext(ctx).Save(recipe).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

// DeleteRecipe soft-deletes an owned recipe and drops its social rows.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id, ownerID uuid.UUID) error {
	if _, err := s.requireOwned(ctx, id, ownerID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeBookmark{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.SavedRecipe{}).Error; err != nil && !missingRelation(err) {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", id).Error
	})
}

// ListFeed returns public recipes newest first, filtered and paginated,
// along with the total match count.
func (s *RecipeService) ListFeed(ctx context.Context, filters RecipeFilters) ([]models.Recipe, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("is_public = ?", true)

	if q := strings.TrimSpace(filters.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filters.Cuisine != "" {
		query = query.Where("LOWER(cuisine_type) = LOWER(?)", filters.Cuisine)
	}
	if filters.Difficulty != "" {
		query = query.Where("difficulty = ?", models.NormalizeDifficulty(filters.Difficulty))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	limit := filters.Limit
	if limit < 1 || limit > 50 {
		limit = 20
	}

	var recipes []models.Recipe
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// ListUserRecipes returns a user's recipes newest first. Viewers other
// than the owner only see public ones.
func (s *RecipeService) ListUserRecipes(ctx context.Context, userID, viewerID uuid.UUID) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if userID != viewerID {
		query = query.Where("is_public = ?", true)
	}
	var recipes []models.Recipe
	if err := query.Order("created_at DESC").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// ToggleLike flips userID's like on a recipe and returns the new state
// with the resulting count. The like lives in its own row keyed by
// (recipe, user), so concurrent toggles cannot corrupt a counter.
func (s *RecipeService) ToggleLike(ctx context.Context, recipeID, userID uuid.UUID) (bool, int64, error) {
	if _, err := s.GetRecipe(ctx, recipeID, userID); err != nil {
		return false, 0, err
	}

	liked := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("recipe_id = ? AND user_id = ?", recipeID, userID).Delete(&models.RecipeLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		like := models.RecipeLike{RecipeID: recipeID, UserID: userID}
		if err := tx.Create(&like).Error; err != nil {
			// A concurrent toggle already inserted the row.
			if isDuplicateKey(err) {
				liked = true
				return nil
			}
			return err
		}
		liked = true
		return nil
	})
	if err != nil {
		return false, 0, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.RecipeLike{}).Where("recipe_id = ?", recipeID).Count(&count).Error; err != nil {
		return liked, 0, err
	}
	return liked, count, nil
}

// ToggleBookmark flips userID's bookmark on a recipe, same contract as
// ToggleLike.
func (s *RecipeService) ToggleBookmark(ctx context.Context, recipeID, userID uuid.UUID) (bool, int64, error) {
	if _, err := s.GetRecipe(ctx, recipeID, userID); err != nil {
		return false, 0, err
	}

	bookmarked := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("recipe_id = ? AND user_id = ?", recipeID, userID).Delete(&models.RecipeBookmark{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		bookmark := models.RecipeBookmark{RecipeID: recipeID, UserID: userID}
		if err := tx.Create(&bookmark).Error; err != nil {
			if isDuplicateKey(err) {
				bookmarked = true
				return nil
			}
			return err
		}
		bookmarked = true
		return nil
	})
	if err != nil {
		return false, 0, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.RecipeBookmark{}).Where("recipe_id = ?", recipeID).Count(&count).Error; err != nil {
		return bookmarked, 0, err
	}
	return bookmarked, count, nil
}

// AddComment appends a comment to a recipe's comment list and returns
// the updated recipe.
func (s *RecipeService) AddComment(ctx context.Context, recipeID, userID uuid.UUID, text string) (*models.Recipe, error) {
	recipe, err := s.GetRecipe(ctx, recipeID, userID)
	if err != nil {
		return nil, err
	}
	recipe.Comments = append(recipe.Comments, models.Comment{
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})
	if err := s.db.WithContext(ctx).Model(recipe).Update("comments", recipe.Comments).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

// Stats returns a recipe's like/bookmark counts and the viewer's own
// state on it.
func (s *RecipeService) Stats(ctx context.Context, recipeID, viewerID uuid.UUID) (*RecipeStats, error) {
	stats := &RecipeStats{}
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.RecipeLike{}).Where("recipe_id = ?", recipeID).Count(&stats.Likes).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.RecipeBookmark{}).Where("recipe_id = ?", recipeID).Count(&stats.Bookmarks).Error; err != nil {
		return nil, err
	}

	if viewerID != uuid.Nil {
		var n int64
		if err := db.Model(&models.RecipeLike{}).Where("recipe_id = ? AND user_id = ?", recipeID, viewerID).Count(&n).Error; err != nil {
			return nil, err
		}
		stats.IsLiked = n > 0

		if err := db.Model(&models.RecipeBookmark{}).Where("recipe_id = ? AND user_id = ?", recipeID, viewerID).Count(&n).Error; err != nil {
			return nil, err
		}
		stats.IsBookmark = n > 0

		err := db.Model(&models.SavedRecipe{}).Where("recipe_id = ? AND user_id = ?", recipeID, viewerID).Count(&n).Error
		if err != nil && !missingRelation(err) {
			return nil, err
		}
		stats.IsSaved = err == nil && n > 0
	}
	return stats, nil
}

// UserStats aggregates a user's authored recipes and the likes they
// have collected.
func (s *RecipeService) UserStats(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	stats := &UserStats{}
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Recipe{}).Where("user_id = ?", userID).Count(&stats.Recipes).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Recipe{}).Where("user_id = ? AND is_public = ?", userID, true).Count(&stats.PublicRecipes).Error; err != nil {
		return nil, err
	}

	err := db.Model(&models.RecipeLike{}).
		Joins("JOIN recipes ON recipes.id = recipe_likes.recipe_id").
		Where("recipes.user_id = ?", userID).
		Count(&stats.LikesReceived).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *RecipeService) requireOwned(ctx context.Context, id, ownerID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if recipe.UserID != ownerID {
		return nil, ErrNotOwner
	}
	return &recipe, nil
}

// isDuplicateKey matches unique-violation errors across the postgres and
// sqlite drivers.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23505")
}

// missingRelation detects an unprovisioned table so optional features
// can degrade instead of erroring.
func missingRelation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "does not exist") ||
		strings.Contains(msg, "no such table") ||
		strings.Contains(msg, "SQLSTATE 42P01")
}
