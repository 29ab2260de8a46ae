package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/flavorcraft/backend/internal/models"
	"github.com/flavorcraft/backend/internal/types"
)

const spoonacularBaseURL = "https://api.spoonacular.com/recipes"

// Spoonacular queries the Spoonacular complexSearch API. It is the first
// chain stage because its results carry structured ingredients,
// instructions and nutrition.
type Spoonacular struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewSpoonacular returns a provider for the given API key. The provider
// reports no results when the key is empty so the chain can skip it
// without special-casing unconfigured deployments.
func NewSpoonacular(apiKey string) *Spoonacular {
	return &Spoonacular{
		apiKey:  apiKey,
		baseURL: spoonacularBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *Spoonacular) Name() string { return "spoonacular" }

type spoonacularSearchResponse struct {
	Results []spoonacularRecipe `json:"results"`
}

type spoonacularRecipe struct {
	ID                  int    `json:"id"`
	Title               string `json:"title"`
	Summary             string `json:"summary"`
	Image               string `json:"image"`
	ReadyInMinutes      int    `json:"readyInMinutes"`
	PreparationMinutes  int    `json:"preparationMinutes"`
	CookingMinutes      int    `json:"cookingMinutes"`
	Servings            int    `json:"servings"`
	Cuisines            []string `json:"cuisines"`
	DishTypes           []string `json:"dishTypes"`
	Diets               []string `json:"diets"`
	ExtendedIngredients []struct {
		Name   string  `json:"name"`
		Amount float64 `json:"amount"`
		Unit   string  `json:"unit"`
	} `json:"extendedIngredients"`
	AnalyzedInstructions []struct {
		Steps []struct {
			Number int    `json:"number"`
			Step   string `json:"step"`
			Length struct {
				Number int `json:"number"`
			} `json:"length"`
		} `json:"steps"`
	} `json:"analyzedInstructions"`
	Nutrition struct {
		Nutrients []struct {
			Name   string  `json:"name"`
			Amount float64 `json:"amount"`
			Unit   string  `json:"unit"`
		} `json:"nutrients"`
	} `json:"nutrition"`
}

// Search runs a complexSearch for the query and normalizes the hits.
func (s *Spoonacular) Search(ctx context.Context, query string, _ []types.PantryIngredient) ([]types.RecipeResult, error) {
	if s.apiKey == "" {
		return nil, nil
	}
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("number", "5")
	params.Set("addRecipeInformation", "true")
	params.Set("addRecipeNutrition", "true")
	params.Set("fillIngredients", "true")
	params.Set("instructionsRequired", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/complexSearch?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("spoonacular returned status %d", resp.StatusCode)
	}

	var parsed spoonacularSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding spoonacular response: %w", err)
	}

	results := make([]types.RecipeResult, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		result := s.normalize(r)
		if len(result.Ingredients) == 0 || len(result.Instructions) == 0 {
			continue
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *Spoonacular) normalize(r spoonacularRecipe) types.RecipeResult {
	ingredients := make([]models.Ingredient, 0, len(r.ExtendedIngredients))
	for _, ing := range r.ExtendedIngredients {
		if ing.Name == "" {
			continue
		}
		ingredients = append(ingredients, models.Ingredient{
			Name:     ing.Name,
			Quantity: trimFloat(ing.Amount),
			Unit:     ing.Unit,
			Category: CategorizeIngredient(ing.Name),
		})
	}

	var instructions []models.Instruction
	if len(r.AnalyzedInstructions) > 0 {
		steps := r.AnalyzedInstructions[0].Steps
		instructions = make([]models.Instruction, 0, len(steps))
		for _, step := range steps {
			if strings.TrimSpace(step.Step) == "" {
				continue
			}
			instructions = append(instructions, models.Instruction{
				Step:        len(instructions) + 1,
				Description: step.Step,
				Duration:    step.Length.Number,
			})
		}
	}

	prep := r.PreparationMinutes
	cook := r.CookingMinutes
	if prep <= 0 && cook <= 0 && r.ReadyInMinutes > 0 {
		prep = r.ReadyInMinutes / 3
		cook = r.ReadyInMinutes - prep
	}
	if prep < 0 {
		prep = 0
	}
	if cook < 0 {
		cook = 0
	}

	cuisine := ""
	if len(r.Cuisines) > 0 {
		cuisine = r.Cuisines[0]
	}

	tags := append([]string{}, r.DishTypes...)
	tags = append(tags, r.Diets...)

	return types.RecipeResult{
		ID:           fmt.Sprintf("spoonacular-%d", r.ID),
		Title:        r.Title,
		Description:  stripHTML(r.Summary),
		Ingredients:  ingredients,
		Instructions: instructions,
		PrepTime:     prep,
		CookTime:     cook,
		Servings:     defaultServings(r.Servings),
		Difficulty:   DifficultyFromMinutes(r.ReadyInMinutes),
		Tags:         tags,
		Cuisine:      cuisine,
		ImageURL:     r.Image,
		Nutrition:    nutritionFromNutrients(r.Nutrition.Nutrients),
		Source:       models.SourceSpoonacular,
	}
}

func nutritionFromNutrients(nutrients []struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}) *models.Nutrition {
	if len(nutrients) == 0 {
		return nil
	}
	n := &models.Nutrition{}
	for _, nutrient := range nutrients {
		value := trimFloat(nutrient.Amount) + nutrient.Unit
		switch nutrient.Name {
		case "Calories":
			n.Calories = trimFloat(nutrient.Amount)
		case "Protein":
			n.Protein = value
		case "Carbohydrates":
			n.Carbs = value
		case "Fat":
			n.Fat = value
		}
	}
	return n
}

func defaultServings(servings int) int {
	if servings <= 0 {
		return 4
	}
	return servings
}

func trimFloat(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}

// stripHTML removes the markup Spoonacular embeds in recipe summaries.
func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
