package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavorcraft/backend/internal/models"
	"github.com/flavorcraft/backend/internal/provider"
	"github.com/flavorcraft/backend/internal/testhelpers"
	"github.com/flavorcraft/backend/internal/types"
)

func setupResultCache(t *testing.T) *provider.ResultCache {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return provider.NewResultCache(client)
}

func TestSaveByUUID(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewSavedRecipeService(db, setupResultCache(t))
	ctx := context.Background()

	owner := testhelpers.CreateTestUser(t, db, "Owner", "owner@example.com", "pw")
	saver := testhelpers.CreateTestUser(t, db, "Saver", "saver@example.com", "pw")
	recipe := testhelpers.CreateTestRecipe(t, db, owner.ID, "Shared Dish", true)

	entry, err := svc.Save(ctx, saver.ID, recipe.ID.String(), "")
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, entry.Saved.RecipeID)
	assert.Equal(t, "recipe_generator", entry.Saved.Source)

	saved, err := svc.IsSaved(ctx, saver.ID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	_, err = svc.Save(ctx, saver.ID, recipe.ID.String(), "")
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestSavePrivateRecipeOfAnotherUser(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewSavedRecipeService(db, setupResultCache(t))
	ctx := context.Background()

	owner := testhelpers.CreateTestUser(t, db, "Owner", "owner@example.com", "pw")
	saver := testhelpers.CreateTestUser(t, db, "Saver", "saver@example.com", "pw")
	private := testhelpers.CreateTestRecipe(t, db, owner.ID, "Hidden Dish", false)

	_, err := svc.Save(ctx, saver.ID, private.ID.String(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveMaterializesCachedProviderResult(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	cache := setupResultCache(t)
	svc := NewSavedRecipeService(db, cache)
	ctx := context.Background()

	saver := testhelpers.CreateTestUser(t, db, "Saver", "saver@example.com", "pw")

	result := types.RecipeResult{
		ID:    "spoonacular-12345",
		Title: "External Lasagna",
		Ingredients: []models.Ingredient{
			{Name: "lasagna sheets", Quantity: "12", Category: models.CategoryGrains},
		},
		Instructions: []models.Instruction{{Step: 1, Description: "Layer and bake."}},
		PrepTime:     20,
		CookTime:     45,
		Servings:     6,
		Difficulty:   models.DifficultyMedium,
		Cuisine:      "Italian",
		Source:       models.SourceSpoonacular,
	}
	require.NoError(t, cache.Put(ctx, result))

	entry, err := svc.Save(ctx, saver.ID, "spoonacular-12345", "search")
	require.NoError(t, err)

	assert.Equal(t, "External Lasagna", entry.Recipe.Title)
	assert.Equal(t, saver.ID, entry.Recipe.UserID)
	assert.False(t, entry.Recipe.IsPublic, "materialized copies are private to the saver")
	assert.Equal(t, models.SourceSpoonacular, entry.Recipe.Source)
	assert.Equal(t, "search", entry.Saved.Source)

	var persisted models.Recipe
	require.NoError(t, db.First(&persisted, "id = ?", entry.Recipe.ID).Error)
	require.Len(t, persisted.Ingredients, 1)
	assert.Equal(t, "lasagna sheets", persisted.Ingredients[0].Name)
}

func TestSaveUnknownProviderIDIsNotFound(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewSavedRecipeService(db, setupResultCache(t))
	ctx := context.Background()

	saver := testhelpers.CreateTestUser(t, db, "Saver", "saver@example.com", "pw")

	_, err := svc.Save(ctx, saver.ID, "spoonacular-never-cached", "")
	assert.ErrorIs(t, err, ErrNotFound, "an expired cache entry must not save")
}

func TestUnsaveAndList(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewSavedRecipeService(db, setupResultCache(t))
	ctx := context.Background()

	owner := testhelpers.CreateTestUser(t, db, "Owner", "owner@example.com", "pw")
	saver := testhelpers.CreateTestUser(t, db, "Saver", "saver@example.com", "pw")
	first := testhelpers.CreateTestRecipe(t, db, owner.ID, "First Dish", true)
	second := testhelpers.CreateTestRecipe(t, db, owner.ID, "Second Dish", true)

	_, err := svc.Save(ctx, saver.ID, first.ID.String(), "")
	require.NoError(t, err)
	_, err = svc.Save(ctx, saver.ID, second.ID.String(), "")
	require.NoError(t, err)

	entries, err := svc.List(ctx, saver.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	require.NoError(t, svc.Unsave(ctx, saver.ID, first.ID))
	assert.ErrorIs(t, svc.Unsave(ctx, saver.ID, first.ID), ErrNotFound)

	entries, err = svc.List(ctx, saver.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, second.ID, entries[0].Recipe.ID)
}

func TestSavedRecipesMissingTable(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	require.NoError(t, db.Migrator().DropTable(&models.SavedRecipe{}))

	svc := NewSavedRecipeService(db, setupResultCache(t))
	ctx := context.Background()

	owner := testhelpers.CreateTestUser(t, db, "Owner", "owner@example.com", "pw")
	recipe := testhelpers.CreateTestRecipe(t, db, owner.ID, "Orphan Dish", true)

	_, err := svc.Save(ctx, owner.ID, recipe.ID.String(), "")
	assert.ErrorIs(t, err, ErrFeatureUnavailable)

	_, err = svc.List(ctx, owner.ID)
	assert.ErrorIs(t, err, ErrFeatureUnavailable)

	_, err = svc.IsSaved(ctx, owner.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrFeatureUnavailable)
}
