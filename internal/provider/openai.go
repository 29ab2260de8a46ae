package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/flavorcraft/backend/internal/models"
	"github.com/flavorcraft/backend/internal/types"
)

const defaultOpenAIURL = "https://api.openai.com/v1/chat/completions"

// OpenAI is the LLM stage. It serves both search (authoring recipes that
// match a query) and generation (authoring one recipe from pantry
// contents). Quota and parse failures are returned as errors so the
// chain advances to the template stage.
type OpenAI struct {
	apiKey string
	apiURL string
	client *http.Client
}

// NewOpenAI returns the LLM provider. With an empty key both Search and
// Generate report nothing, letting the chain skip the stage.
func NewOpenAI(apiKey, apiURL string) *OpenAI {
	if apiURL == "" {
		apiURL = defaultOpenAIURL
	}
	return &OpenAI{
		apiKey: apiKey,
		apiURL: apiURL,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (o *OpenAI) Name() string { return "openai" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature"`
}

// llmRecipe is the JSON shape the model is instructed to produce.
type llmRecipe struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Cuisine      string   `json:"cuisine"`
	Ingredients  []struct {
		Name     string `json:"name"`
		Quantity string `json:"quantity"`
		Unit     string `json:"unit"`
	} `json:"ingredients"`
	Instructions []string `json:"instructions"`
	PrepTime     int      `json:"prep_time"`
	CookTime     int      `json:"cook_time"`
	Servings     int      `json:"servings"`
	Difficulty   string   `json:"difficulty"`
	Tags         []string `json:"tags"`
	CookingTips  []string `json:"cooking_tips"`
}

const recipeJSONInstructions = `You are a professional chef. Respond only with JSON using this structure:
{
  "title": "Recipe name",
  "description": "One or two sentences",
  "cuisine": "Cuisine name",
  "ingredients": [{"name": "chicken breast", "quantity": "2", "unit": "pieces"}],
  "instructions": ["First step", "Second step"],
  "prep_time": 15,
  "cook_time": 30,
  "servings": 4,
  "difficulty": "Easy, Medium or Hard",
  "tags": ["dinner"],
  "cooking_tips": ["Optional tip"]
}
The prep_time, cook_time and servings fields must be numbers.`

// Search asks the model for up to three recipes matching the query. The
// response is a JSON object holding a "recipes" array.
func (o *OpenAI) Search(ctx context.Context, query string, pantry []types.PantryIngredient) ([]types.RecipeResult, error) {
	if o.apiKey == "" {
		return nil, nil
	}
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	prompt := fmt.Sprintf("Create up to 3 distinct recipes matching the search %q.", query)
	if len(pantry) > 0 {
		prompt += " Prefer these available ingredients: " + joinPantryNames(pantry) + "."
	}
	prompt += ` Respond with {"recipes": [...]} where each entry follows the recipe structure.`

	content, err := o.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Recipes []llmRecipe `json:"recipes"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("parsing model response: %w", err)
	}

	results := make([]types.RecipeResult, 0, len(parsed.Recipes))
	for i, r := range parsed.Recipes {
		result := o.normalize(r, fmt.Sprintf("ai-%d-%d", time.Now().UnixMilli(), i))
		if len(result.Ingredients) == 0 || len(result.Instructions) == 0 {
			continue
		}
		results = append(results, result)
	}
	return results, nil
}

// Generate asks the model for one recipe built around the pantry and the
// caller's preferences.
func (o *OpenAI) Generate(ctx context.Context, pantry []types.PantryIngredient, prefs types.GeneratePreferences) (*types.RecipeResult, error) {
	if o.apiKey == "" {
		return nil, nil
	}

	prompt := "Create one recipe that uses as many of these pantry ingredients as possible: " + joinPantryNames(pantry) + "."
	if len(prefs.DietaryRestrictions) > 0 {
		prompt += " The recipe must be suitable for: " + strings.Join(prefs.DietaryRestrictions, ", ") + "."
	}
	if len(prefs.CuisinePreferences) > 0 {
		prompt += " Preferred cuisines: " + strings.Join(prefs.CuisinePreferences, ", ") + "."
	}
	if prefs.MaxCookTime > 0 {
		prompt += fmt.Sprintf(" Total cooking time must stay under %d minutes.", prefs.MaxCookTime)
	}

	content, err := o.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var parsed llmRecipe
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("parsing model response: %w", err)
	}

	result := o.normalize(parsed, fmt.Sprintf("ai-%d", time.Now().UnixMilli()))
	if len(result.Ingredients) == 0 || len(result.Instructions) == 0 {
		return nil, fmt.Errorf("model produced an unusable recipe")
	}
	return &result, nil
}

func (o *OpenAI) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: "gpt-3.5-turbo",
		Messages: []chatMessage{
			{Role: "system", Content: recipeJSONInstructions},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    0.8,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("model API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from model API")
	}
	return result.Choices[0].Message.Content, nil
}

func (o *OpenAI) normalize(r llmRecipe, id string) types.RecipeResult {
	ingredients := make([]models.Ingredient, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			continue
		}
		ingredients = append(ingredients, models.Ingredient{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
			Category: CategorizeIngredient(ing.Name),
		})
	}

	instructions := make([]models.Instruction, 0, len(r.Instructions))
	for _, step := range r.Instructions {
		if strings.TrimSpace(step) == "" {
			continue
		}
		instructions = append(instructions, models.Instruction{
			Step:        len(instructions) + 1,
			Description: step,
		})
	}

	difficulty := models.NormalizeDifficulty(r.Difficulty)
	if difficulty == "" {
		difficulty = DifficultyFromMinutes(r.PrepTime + r.CookTime)
	}

	return types.RecipeResult{
		ID:           id,
		Title:        r.Title,
		Description:  r.Description,
		Ingredients:  ingredients,
		Instructions: instructions,
		PrepTime:     r.PrepTime,
		CookTime:     r.CookTime,
		Servings:     defaultServings(r.Servings),
		Difficulty:   difficulty,
		Tags:         r.Tags,
		Cuisine:      r.Cuisine,
		CookingTips:  r.CookingTips,
		Source:       models.SourceLLM,
	}
}

func joinPantryNames(pantry []types.PantryIngredient) string {
	names := make([]string, 0, len(pantry))
	for _, item := range pantry {
		if item.Name != "" {
			names = append(names, item.Name)
		}
	}
	return strings.Join(names, ", ")
}
