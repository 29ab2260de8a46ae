package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/flavorcraft/backend/internal/models"
	"github.com/flavorcraft/backend/internal/types"
)

const mealDBBaseURL = "https://www.themealdb.com/api/json/v1/1"

// mealDBCuisines are the areas sampled when falling back to a pantry
// match. TheMealDB has no ingredient search on its free tier, so we pull
// a random cuisine's listing and score it against the pantry instead.
var mealDBCuisines = []string{
	"Italian", "Mexican", "Chinese", "Indian", "American",
	"French", "Japanese", "Thai", "Spanish", "Greek",
}

// MealDB is the free second stage of the search chain. A title search
// runs first; when it comes up empty and pantry items were supplied, a
// pantry-scored cuisine sample answers instead.
type MealDB struct {
	baseURL string
	client  *http.Client
	rand    *rand.Rand
}

func NewMealDB() *MealDB {
	return &MealDB{
		baseURL: mealDBBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (m *MealDB) Name() string { return "mealdb" }

type mealDBListResponse struct {
	Meals []map[string]any `json:"meals"`
}

// Search runs search.php for the query, then falls back to the pantry
// path when the title search finds nothing.
func (m *MealDB) Search(ctx context.Context, query string, pantry []types.PantryIngredient) ([]types.RecipeResult, error) {
	if strings.TrimSpace(query) != "" {
		results, err := m.searchByTitle(ctx, query)
		if err != nil {
			return nil, err
		}
		if len(results) > 0 {
			return results, nil
		}
	}
	if len(pantry) > 0 {
		return m.searchByPantry(ctx, pantry)
	}
	return nil, nil
}

func (m *MealDB) searchByTitle(ctx context.Context, query string) ([]types.RecipeResult, error) {
	meals, err := m.fetchMeals(ctx, "/search.php?s="+url.QueryEscape(query))
	if err != nil {
		return nil, err
	}

	results := make([]types.RecipeResult, 0, len(meals))
	for i, meal := range meals {
		if i >= 5 {
			break
		}
		result := m.normalize(meal)
		if len(result.Ingredients) == 0 || len(result.Instructions) == 0 {
			continue
		}
		results = append(results, result)
	}
	return results, nil
}

// searchByPantry samples one random cuisine, fetches details for a
// handful of its meals sequentially, scores each by the fraction of its
// ingredients found in the pantry, and keeps the top three matches.
func (m *MealDB) searchByPantry(ctx context.Context, pantry []types.PantryIngredient) ([]types.RecipeResult, error) {
	cuisine := mealDBCuisines[m.rand.Intn(len(mealDBCuisines))]
	listing, err := m.fetchMeals(ctx, "/filter.php?a="+url.QueryEscape(cuisine))
	if err != nil {
		return nil, err
	}
	if len(listing) == 0 {
		return nil, nil
	}

	m.rand.Shuffle(len(listing), func(i, j int) { listing[i], listing[j] = listing[j], listing[i] })
	if len(listing) > 5 {
		listing = listing[:5]
	}

	type scored struct {
		result types.RecipeResult
		score  float64
	}
	var candidates []scored
	for _, stub := range listing {
		id, _ := stub["idMeal"].(string)
		if id == "" {
			continue
		}
		meals, err := m.fetchMeals(ctx, "/lookup.php?i="+url.QueryEscape(id))
		if err != nil || len(meals) == 0 {
			continue
		}
		result := m.normalize(meals[0])
		if len(result.Ingredients) == 0 || len(result.Instructions) == 0 {
			continue
		}
		score := pantryMatchScore(result.Ingredients, pantry)
		if score <= 0 {
			continue
		}
		candidates = append(candidates, scored{result: result, score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
	if len(candidates) > 3 {
		candidates = candidates[:3]
	}
	results := make([]types.RecipeResult, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, c.result)
	}
	return results, nil
}

// pantryMatchScore is the fraction of recipe ingredients matched by a
// pantry item. Matching is a bidirectional case-insensitive substring
// test so "chicken" matches "chicken breast" and vice versa.
func pantryMatchScore(ingredients []models.Ingredient, pantry []types.PantryIngredient) float64 {
	if len(ingredients) == 0 {
		return 0
	}
	matched := 0
	for _, ing := range ingredients {
		ingName := strings.ToLower(ing.Name)
		for _, item := range pantry {
			itemName := strings.ToLower(item.Name)
			if itemName == "" {
				continue
			}
			if strings.Contains(ingName, itemName) || strings.Contains(itemName, ingName) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(ingredients))
}

func (m *MealDB) fetchMeals(ctx context.Context, path string) ([]map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("themealdb returned status %d", resp.StatusCode)
	}
	var parsed mealDBListResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding themealdb response: %w", err)
	}
	return parsed.Meals, nil
}

// normalize flattens TheMealDB's strIngredient1..20/strMeasure1..20
// columns and splits the instruction blob into ordered steps.
func (m *MealDB) normalize(meal map[string]any) types.RecipeResult {
	str := func(key string) string {
		v, _ := meal[key].(string)
		return strings.TrimSpace(v)
	}

	var ingredients []models.Ingredient
	for i := 1; i <= 20; i++ {
		name := str(fmt.Sprintf("strIngredient%d", i))
		if name == "" {
			continue
		}
		measure := str(fmt.Sprintf("strMeasure%d", i))
		ingredients = append(ingredients, models.Ingredient{
			Name:     name,
			Quantity: measure,
			Category: CategorizeIngredient(name),
		})
	}

	var instructions []models.Instruction
	for _, line := range strings.Split(str("strInstructions"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		instructions = append(instructions, models.Instruction{
			Step:        len(instructions) + 1,
			Description: line,
		})
	}

	var tags []string
	if raw := str("strTags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	if category := str("strCategory"); category != "" {
		tags = append(tags, category)
	}

	// TheMealDB carries no timing data; estimate from step count.
	cook := 10 + 5*len(instructions)

	return types.RecipeResult{
		ID:           "mealdb-" + str("idMeal"),
		Title:        str("strMeal"),
		Description:  fmt.Sprintf("%s recipe from the community cookbook.", str("strArea")),
		Ingredients:  ingredients,
		Instructions: instructions,
		PrepTime:     15,
		CookTime:     cook,
		Servings:     4,
		Difficulty:   DifficultyFromMinutes(15 + cook),
		Tags:         tags,
		Cuisine:      str("strArea"),
		ImageURL:     str("strMealThumb"),
		Source:       models.SourceMealDB,
	}
}
