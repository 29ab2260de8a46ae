package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/flavorcraft/backend/internal/api"
	"github.com/flavorcraft/backend/internal/models"
	"github.com/flavorcraft/backend/internal/provider"
	"github.com/flavorcraft/backend/internal/router"
	"github.com/flavorcraft/backend/internal/service"
	"github.com/flavorcraft/backend/internal/testhelpers"
)

const testJWTSecret = "api-test-secret"

// testEnv is a fully wired application over an in-memory database, an
// in-process Redis and a chain that ends in the template stage.
type testEnv struct {
	DB     *gorm.DB
	Router *gin.Engine
	Auth   *service.AuthService
	Cache  *provider.ResultCache
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	cache := provider.NewResultCache(redisClient)
	templates := provider.NewTemplates()
	chain := provider.NewChain(
		[]provider.RecipeProvider{templates},
		[]provider.RecipeGenerator{templates},
	)

	authService := service.NewAuthService(db, testJWTSecret)
	recipeService := service.NewRecipeService(db)
	pantryService := service.NewPantryService(db)
	savedService := service.NewSavedRecipeService(db, cache)
	mediaService := service.NewMediaService(db, nil)

	handlers := router.Handlers{
		User:   api.NewUserHandler(authService, recipeService),
		Recipe: api.NewRecipeHandler(recipeService, pantryService, authService, chain, cache, nil),
		Pantry: api.NewPantryHandler(pantryService, authService),
		Saved:  api.NewSavedRecipeHandler(savedService, authService),
		Media:  api.NewMediaHandler(mediaService, authService),
	}

	return &testEnv{
		DB:     db,
		Router: router.SetupRouter(handlers, []string{"http://localhost:5173"}),
		Auth:   authService,
		Cache:  cache,
	}
}

// registerUser creates an account through the service and returns the
// user with a valid bearer token.
func (e *testEnv) registerUser(t *testing.T, name, email string) (*models.User, string) {
	t.Helper()
	user, token, err := e.Auth.Register(context.Background(), name, email, "test password 123")
	require.NoError(t, err)
	return user, token
}

// request performs an HTTP request against the test router. A non-empty
// token is sent as a bearer credential; a non-nil body is sent as JSON.
func (e *testEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

// decode unmarshals a recorder's JSON body into out.
func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	require.Equal(t, expected, w.Code, "body: %s", w.Body.String())
}
