package api_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavorcraft/backend/internal/models"
	"github.com/flavorcraft/backend/internal/testhelpers"
)

func attachBody(recipeID string) map[string]any {
	return map[string]any{
		"recipe_id": recipeID,
		"media": []map[string]any{
			{
				"media_type":   "image",
				"storage_path": "recipe-media/test/cover.jpg",
				"storage_url":  "https://media.example.com/cover.jpg",
				"file_name":    "cover.jpg",
				"file_size":    1024,
			},
		},
	}
}

func TestUploadWithoutStoreReturnsServiceUnavailable(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.registerUser(t, "Alice", "alice@example.com")

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("files", "cover.jpg")
	require.NoError(t, err)
	part.Write([]byte("not really a jpeg"))
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/media/upload", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, req)

	requireStatus(t, w, http.StatusServiceUnavailable)
	assert.Contains(t, w.Body.String(), "feature not available yet")
}

func TestAttachMediaToOwnRecipe(t *testing.T) {
	env := setupTestEnv(t)
	owner, token := env.registerUser(t, "Owner", "owner@example.com")
	recipe := testhelpers.CreateTestRecipe(t, env.DB, owner.ID, "Photogenic Dish", true)

	w := env.request(t, http.MethodPost, "/api/media/attach-to-recipe", token, attachBody(recipe.ID.String()))
	requireStatus(t, w, http.StatusCreated)

	// The listing is public, no token needed.
	w = env.request(t, http.MethodGet, "/api/media/recipe/"+recipe.ID.String(), "", nil)
	requireStatus(t, w, http.StatusOK)
	var resp struct {
		Media []models.MediaAttachment `json:"media"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.Media, 1)
	assert.Equal(t, "cover.jpg", resp.Media[0].FileName)
}

func TestAttachMediaToForeignRecipeForbidden(t *testing.T) {
	env := setupTestEnv(t)
	owner, _ := env.registerUser(t, "Owner", "owner@example.com")
	_, otherToken := env.registerUser(t, "Other", "other@example.com")
	recipe := testhelpers.CreateTestRecipe(t, env.DB, owner.ID, "Guarded Dish", true)

	w := env.request(t, http.MethodPost, "/api/media/attach-to-recipe", otherToken, attachBody(recipe.ID.String()))
	requireStatus(t, w, http.StatusForbidden)

	var count int64
	require.NoError(t, env.DB.Model(&models.MediaAttachment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRemoveMediaOwnerOnly(t *testing.T) {
	env := setupTestEnv(t)
	owner, ownerToken := env.registerUser(t, "Owner", "owner@example.com")
	_, otherToken := env.registerUser(t, "Other", "other@example.com")
	recipe := testhelpers.CreateTestRecipe(t, env.DB, owner.ID, "Dish", true)

	w := env.request(t, http.MethodPost, "/api/media/attach-to-recipe", ownerToken, attachBody(recipe.ID.String()))
	requireStatus(t, w, http.StatusCreated)
	var created struct {
		Media []models.MediaAttachment `json:"media"`
	}
	decode(t, w, &created)
	require.Len(t, created.Media, 1)
	mediaID := created.Media[0].ID.String()

	w = env.request(t, http.MethodDelete, "/api/media/"+mediaID, otherToken, nil)
	requireStatus(t, w, http.StatusForbidden)

	w = env.request(t, http.MethodDelete, "/api/media/"+mediaID, ownerToken, nil)
	requireStatus(t, w, http.StatusOK)
}
