package provider

import (
	"strings"

	"github.com/flavorcraft/backend/internal/models"
)

var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{models.CategoryProtein, []string{"chicken", "beef", "pork", "fish", "salmon", "shrimp", "tofu", "egg", "meat"}},
	{models.CategoryProduce, []string{"tomato", "onion", "garlic", "pepper", "carrot", "spinach", "lettuce", "broccoli", "mushroom", "vegetable", "herb", "lemon", "lime"}},
	{models.CategoryDairy, []string{"milk", "cheese", "cream", "butter", "yogurt"}},
	{models.CategoryGrains, []string{"rice", "pasta", "noodle", "bread", "flour", "oat", "quinoa"}},
	{models.CategoryCondiments, []string{"oil", "vinegar", "sauce", "ketchup", "mustard", "mayo", "honey", "syrup"}},
}

// CategorizeIngredient maps an ingredient name onto one of the pantry
// categories by keyword lookup. Anything unrecognized lands in spices.
func CategorizeIngredient(name string) string {
	lower := strings.ToLower(name)
	for _, group := range categoryKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.category
			}
		}
	}
	return models.CategorySpices
}

// DifficultyFromMinutes derives a difficulty label from total cooking
// time. Thirty minutes or less is Easy, up to an hour is Medium.
func DifficultyFromMinutes(minutes int) string {
	switch {
	case minutes <= 30:
		return models.DifficultyEasy
	case minutes <= 60:
		return models.DifficultyMedium
	default:
		return models.DifficultyHard
	}
}
