package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavorcraft/backend/internal/models"
	"github.com/flavorcraft/backend/internal/testhelpers"
)

func TestPantryIsScopedToOwner(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewPantryService(db)
	ctx := context.Background()

	alice := testhelpers.CreateTestUser(t, db, "Alice", "alice@example.com", "pw")
	bob := testhelpers.CreateTestUser(t, db, "Bob", "bob@example.com", "pw")

	item, err := svc.AddItem(ctx, alice.ID, &models.PantryItem{
		IngredientName: "chicken thighs",
		Quantity:       "500",
		Unit:           "g",
		Category:       models.CategoryProtein,
	})
	require.NoError(t, err)

	aliceItems, err := svc.ListItems(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, aliceItems, 1)

	bobItems, err := svc.ListItems(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobItems, "one user's pantry must be invisible to another")

	// Bob can neither update nor delete Alice's item.
	_, err = svc.UpdateItem(ctx, item.ID, bob.ID, func(i *models.PantryItem) { i.Quantity = "0" })
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteItem(ctx, item.ID, bob.ID), ErrNotFound)

	require.NoError(t, svc.DeleteItem(ctx, item.ID, alice.ID))
}

func TestPantryUpdateAppliesChanges(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewPantryService(db)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db, "Alice", "alice@example.com", "pw")
	item, err := svc.AddItem(ctx, user.ID, &models.PantryItem{
		IngredientName: "milk",
		Quantity:       "1",
		Unit:           "l",
		Category:       models.CategoryDairy,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateItem(ctx, item.ID, user.ID, func(i *models.PantryItem) {
		i.Quantity = "2"
	})
	require.NoError(t, err)
	assert.Equal(t, "2", updated.Quantity)
	assert.Equal(t, "milk", updated.IngredientName)
}

func TestPantryListByCategoryIncludesEmptyGroups(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewPantryService(db)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db, "Alice", "alice@example.com", "pw")
	_, err := svc.AddItem(ctx, user.ID, &models.PantryItem{
		IngredientName: "rice",
		Category:       models.CategoryGrains,
	})
	require.NoError(t, err)

	grouped, err := svc.ListByCategory(ctx, user.ID)
	require.NoError(t, err)

	assert.Len(t, grouped, len(models.PantryCategories))
	assert.Len(t, grouped[models.CategoryGrains], 1)
	assert.Empty(t, grouped[models.CategoryProtein])
}
