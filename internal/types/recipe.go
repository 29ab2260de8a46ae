package types

import "github.com/flavorcraft/backend/internal/models"

// RecipeResult is the normalized recipe shape every search/generation
// provider converts its results into. The ID is provider-scoped (for
// example "spoonacular-12345" or "template-chicken-curry-1") and never
// collides with a persisted recipe's UUID.
type RecipeResult struct {
	ID           string               `json:"id"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Ingredients  []models.Ingredient  `json:"ingredients"`
	Instructions []models.Instruction `json:"instructions"`
	PrepTime     int                  `json:"prep_time"`
	CookTime     int                  `json:"cook_time"`
	Servings     int                  `json:"servings"`
	Difficulty   string               `json:"difficulty"`
	Tags         []string             `json:"tags"`
	Cuisine      string               `json:"cuisine"`
	ImageURL     string               `json:"image,omitempty"`
	Nutrition    *models.Nutrition    `json:"nutrition_info,omitempty"`
	CookingTips  []string             `json:"cooking_tips,omitempty"`
	Source       string               `json:"source"`
}

// PantryIngredient is the pantry context passed into the provider chain.
type PantryIngredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

// GeneratePreferences narrows what the LLM generation stage is asked for.
type GeneratePreferences struct {
	DietaryRestrictions []string `json:"dietaryRestrictions,omitempty"`
	CuisinePreferences  []string `json:"cuisinePreferences,omitempty"`
	MaxCookTime         int      `json:"maxCookTime,omitempty"`
}
