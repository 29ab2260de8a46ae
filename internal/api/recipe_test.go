package api_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavorcraft/backend/internal/models"
	"github.com/flavorcraft/backend/internal/testhelpers"
	"github.com/flavorcraft/backend/internal/types"
)

func validRecipeBody() map[string]any {
	return map[string]any{
		"title": "Weeknight Stir Fry",
		"ingredients": []map[string]any{
			{"name": "chicken breast", "quantity": "2", "unit": "pieces"},
		},
		"instructions": []map[string]any{
			{"description": "Cook everything."},
		},
		"prep_time": 10,
		"cook_time": 15,
		"servings":  2,
	}
}

func TestCreateRecipeRequiresAuth(t *testing.T) {
	env := setupTestEnv(t)
	w := env.request(t, http.MethodPost, "/api/recipes", "", validRecipeBody())
	requireStatus(t, w, http.StatusUnauthorized)

	var resp map[string]string
	decode(t, w, &resp)
	assert.Equal(t, "authorization denied", resp["message"])
}

func TestCreateRecipeValidationErrors(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.registerUser(t, "Alice", "alice@example.com")

	body := map[string]any{
		"title":        "",
		"ingredients":  []map[string]any{{"name": "   "}},
		"instructions": []map[string]any{{"description": ""}},
		"servings":     0,
		"difficulty":   "impossible",
	}
	w := env.request(t, http.MethodPost, "/api/recipes", token, body)
	requireStatus(t, w, http.StatusBadRequest)

	var resp struct {
		Errors []types.FieldError `json:"errors"`
	}
	decode(t, w, &resp)

	fields := make(map[string]bool)
	for _, fe := range resp.Errors {
		fields[fe.Field] = true
	}
	assert.True(t, fields["title"])
	assert.True(t, fields["ingredients"])
	assert.True(t, fields["instructions"])
	assert.True(t, fields["servings"])
	assert.True(t, fields["difficulty"])

	var count int64
	require.NoError(t, env.DB.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count, "a rejected create must not persist a row")
}

func TestCreateRecipeNormalizesContent(t *testing.T) {
	env := setupTestEnv(t)
	user, token := env.registerUser(t, "Alice", "alice@example.com")

	body := validRecipeBody()
	body["difficulty"] = "mEdIuM"
	body["ingredients"] = []map[string]any{
		{"name": "chicken breast", "quantity": "2"},
		{"name": "   ", "quantity": "1"},
		{"name": "soy sauce", "quantity": "2", "unit": "tbsp"},
	}
	body["instructions"] = []map[string]any{
		{"description": "Slice the chicken."},
		{"description": "   "},
		{"description": "Fry it all."},
	}

	w := env.request(t, http.MethodPost, "/api/recipes", token, body)
	requireStatus(t, w, http.StatusCreated)

	var created models.Recipe
	decode(t, w, &created)
	assert.Equal(t, user.ID, created.UserID)
	assert.Equal(t, models.DifficultyMedium, created.Difficulty)
	assert.Equal(t, models.SourceUser, created.Source)

	require.Len(t, created.Ingredients, 2, "blank ingredients must be dropped")
	assert.Equal(t, models.CategoryProtein, created.Ingredients[0].Category, "missing categories are inferred")
	assert.Equal(t, models.CategoryCondiments, created.Ingredients[1].Category)

	require.Len(t, created.Instructions, 2, "blank steps must be dropped")
	assert.Equal(t, 1, created.Instructions[0].Step)
	assert.Equal(t, 2, created.Instructions[1].Step)
	assert.Equal(t, "Fry it all.", created.Instructions[1].Description)
}

func TestUpdateRecipeByNonOwnerIsForbidden(t *testing.T) {
	env := setupTestEnv(t)
	owner, _ := env.registerUser(t, "Owner", "owner@example.com")
	_, intruderToken := env.registerUser(t, "Intruder", "intruder@example.com")
	recipe := testhelpers.CreateTestRecipe(t, env.DB, owner.ID, "Owned Dish", true)

	w := env.request(t, http.MethodPut, "/api/recipes/"+recipe.ID.String(), intruderToken, validRecipeBody())
	requireStatus(t, w, http.StatusForbidden)

	var persisted models.Recipe
	require.NoError(t, env.DB.First(&persisted, "id = ?", recipe.ID).Error)
	assert.Equal(t, "Owned Dish", persisted.Title)
}

func TestGetRecipeIncludesStats(t *testing.T) {
	env := setupTestEnv(t)
	owner, _ := env.registerUser(t, "Owner", "owner@example.com")
	_, fanToken := env.registerUser(t, "Fan", "fan@example.com")
	recipe := testhelpers.CreateTestRecipe(t, env.DB, owner.ID, "Stat Dish", true)

	w := env.request(t, http.MethodPut, "/api/recipes/"+recipe.ID.String()+"/like", fanToken, nil)
	requireStatus(t, w, http.StatusOK)

	w = env.request(t, http.MethodGet, "/api/recipes/"+recipe.ID.String(), fanToken, nil)
	requireStatus(t, w, http.StatusOK)

	var resp struct {
		Recipe models.Recipe `json:"recipe"`
		Stats  struct {
			Likes   int64 `json:"likes"`
			IsLiked bool  `json:"is_liked"`
		} `json:"stats"`
	}
	decode(t, w, &resp)
	assert.Equal(t, recipe.ID, resp.Recipe.ID)
	assert.EqualValues(t, 1, resp.Stats.Likes)
	assert.True(t, resp.Stats.IsLiked)
}

func TestLikeEndpointTogglesAndStaysConsistent(t *testing.T) {
	env := setupTestEnv(t)
	owner, _ := env.registerUser(t, "Owner", "owner@example.com")
	_, fanToken := env.registerUser(t, "Fan", "fan@example.com")
	recipe := testhelpers.CreateTestRecipe(t, env.DB, owner.ID, "Toggled Dish", true)

	path := "/api/recipes/" + recipe.ID.String() + "/like"

	var resp struct {
		Liked bool  `json:"liked"`
		Likes int64 `json:"likes"`
	}

	w := env.request(t, http.MethodPut, path, fanToken, nil)
	requireStatus(t, w, http.StatusOK)
	decode(t, w, &resp)
	assert.True(t, resp.Liked)
	assert.EqualValues(t, 1, resp.Likes)

	w = env.request(t, http.MethodPut, path, fanToken, nil)
	requireStatus(t, w, http.StatusOK)
	decode(t, w, &resp)
	assert.False(t, resp.Liked)
	assert.EqualValues(t, 0, resp.Likes)

	// An even number of toggles always lands back on zero.
	for i := 0; i < 4; i++ {
		env.request(t, http.MethodPut, path, fanToken, nil)
	}
	var rows int64
	require.NoError(t, env.DB.Model(&models.RecipeLike{}).Where("recipe_id = ?", recipe.ID).Count(&rows).Error)
	assert.EqualValues(t, 0, rows)
}

func TestPrivateRecipeHiddenFromOthers(t *testing.T) {
	env := setupTestEnv(t)
	owner, ownerToken := env.registerUser(t, "Owner", "owner@example.com")
	_, otherToken := env.registerUser(t, "Other", "other@example.com")
	private := testhelpers.CreateTestRecipe(t, env.DB, owner.ID, "Private Dish", false)

	path := "/api/recipes/" + private.ID.String()
	requireStatus(t, env.request(t, http.MethodGet, path, ownerToken, nil), http.StatusOK)
	requireStatus(t, env.request(t, http.MethodGet, path, otherToken, nil), http.StatusNotFound)
	requireStatus(t, env.request(t, http.MethodGet, path, "", nil), http.StatusNotFound)
}

func TestSearchFallsBackToTemplates(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/recipes/search?q=chicken+curry", "", nil)
	requireStatus(t, w, http.StatusOK)

	var resp struct {
		Community []models.Recipe      `json:"community"`
		External  []types.RecipeResult `json:"external"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.External)
	assert.Equal(t, "Classic Chicken Curry", resp.External[0].Title)
	assert.Equal(t, models.SourceTemplate, resp.External[0].Source)
}

func TestSearchAcceptsPantryParam(t *testing.T) {
	env := setupTestEnv(t)

	pantry := url.QueryEscape(`[{"name":"tortillas","quantity":"4","unit":"pieces"},{"name":"black beans","quantity":"1","unit":"can"}]`)
	w := env.request(t, http.MethodGet, "/api/recipes/search?pantry="+pantry, "", nil)
	requireStatus(t, w, http.StatusOK)

	var resp struct {
		External []types.RecipeResult `json:"external"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.External)
	for _, r := range resp.External {
		assert.NotEmpty(t, r.Ingredients)
		assert.NotEmpty(t, r.Instructions)
	}
}

func TestSearchRejectsMalformedPantryParam(t *testing.T) {
	env := setupTestEnv(t)
	w := env.request(t, http.MethodGet, "/api/recipes/search?pantry=not-json", "", nil)
	requireStatus(t, w, http.StatusBadRequest)
}

func TestSearchRequiresQueryOrPantry(t *testing.T) {
	env := setupTestEnv(t)
	w := env.request(t, http.MethodGet, "/api/recipes/search", "", nil)
	requireStatus(t, w, http.StatusBadRequest)
}

func TestSearchResultCanBeSaved(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.registerUser(t, "Saver", "saver@example.com")

	w := env.request(t, http.MethodGet, "/api/recipes/search?q=carbonara", token, nil)
	requireStatus(t, w, http.StatusOK)

	var searchResp struct {
		External []types.RecipeResult `json:"external"`
	}
	decode(t, w, &searchResp)
	require.NotEmpty(t, searchResp.External)

	w = env.request(t, http.MethodPost, "/api/saved-recipes/save", token, map[string]string{
		"recipe_id": searchResp.External[0].ID,
		"source":    "search",
	})
	requireStatus(t, w, http.StatusCreated)

	var count int64
	require.NoError(t, env.DB.Model(&models.Recipe{}).Where("title = ?", searchResp.External[0].Title).Count(&count).Error)
	assert.EqualValues(t, 1, count, "saving an external result must materialize a recipe row")
}

func TestGenerateRecipeFromPantry(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.registerUser(t, "Cook", "cook@example.com")

	body := map[string]any{
		"pantryItems": []map[string]string{
			{"name": "chicken breast"},
			{"name": "tomatoes"},
		},
	}
	w := env.request(t, http.MethodPost, "/api/recipes/generate", token, body)
	requireStatus(t, w, http.StatusOK)

	var resp struct {
		Recipe types.RecipeResult `json:"recipe"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "Chicken and Tomato Pasta", resp.Recipe.Title)
	assert.NotEmpty(t, resp.Recipe.Ingredients)

	// The generated result is cached, so it can be saved right away.
	w = env.request(t, http.MethodPost, "/api/saved-recipes/save", token, map[string]string{
		"recipe_id": resp.Recipe.ID,
	})
	requireStatus(t, w, http.StatusCreated)
}

func TestGenerateRequiresPantryItems(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.registerUser(t, "Cook", "cook@example.com")

	w := env.request(t, http.MethodPost, "/api/recipes/generate", token, map[string]any{
		"pantryItems": []map[string]string{},
	})
	requireStatus(t, w, http.StatusBadRequest)
}

func TestFeedPaginationAndFilters(t *testing.T) {
	env := setupTestEnv(t)
	owner, _ := env.registerUser(t, "Owner", "owner@example.com")

	for i := 0; i < 3; i++ {
		testhelpers.CreateTestRecipe(t, env.DB, owner.ID, fmt.Sprintf("Public Dish %d", i), true)
	}
	testhelpers.CreateTestRecipe(t, env.DB, owner.ID, "Private Dish", false)

	w := env.request(t, http.MethodGet, "/api/recipes?limit=2&page=1", "", nil)
	requireStatus(t, w, http.StatusOK)

	var resp struct {
		Recipes []models.Recipe `json:"recipes"`
		Total   int64           `json:"total"`
	}
	decode(t, w, &resp)
	assert.EqualValues(t, 3, resp.Total)
	assert.Len(t, resp.Recipes, 2)
}
