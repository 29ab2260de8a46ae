// Command seed_recipes fills an empty database with a demo account and
// the full template catalog so a fresh environment has a browsable feed.
package main

import (
	"context"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/flavorcraft/backend/config"
	"github.com/flavorcraft/backend/internal/database"
	"github.com/flavorcraft/backend/internal/models"
	"github.com/flavorcraft/backend/internal/provider"
	"github.com/flavorcraft/backend/internal/types"
)

var seedQueries = []string{
	"chicken curry",
	"vegetable curry",
	"carbonara",
	"pasta",
	"fried chicken",
	"grilled chicken",
	"vegetarian",
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("flavorcraft-demo"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash demo password: %v", err)
	}
	demo := models.User{
		Name:         "FlavorCraft Kitchen",
		Email:        "kitchen@flavorcraft.dev",
		PasswordHash: string(hash),
	}
	if err := db.Where("email = ?", demo.Email).FirstOrCreate(&demo).Error; err != nil {
		log.Fatalf("failed to create demo user: %v", err)
	}

	templates := provider.NewTemplates()
	seen := make(map[string]bool)
	seeded := 0

	for _, query := range seedQueries {
		results, err := templates.Search(context.Background(), query, nil)
		if err != nil {
			log.Fatalf("template lookup failed: %v", err)
		}
		for _, result := range results {
			if seen[result.ID] {
				continue
			}
			seen[result.ID] = true

			recipe := recipeFromResult(demo, result)
			var count int64
			db.Model(&models.Recipe{}).Where("user_id = ? AND title = ?", demo.ID, recipe.Title).Count(&count)
			if count > 0 {
				continue
			}
			if err := db.Create(&recipe).Error; err != nil {
				log.Fatalf("failed to seed %q: %v", recipe.Title, err)
			}
			seeded++
		}
	}

	log.Printf("seeded %d recipes for %s", seeded, demo.Email)
}

func recipeFromResult(owner models.User, result types.RecipeResult) models.Recipe {
	return models.Recipe{
		UserID:       owner.ID,
		Title:        result.Title,
		Description:  result.Description,
		Ingredients:  models.IngredientList(result.Ingredients),
		Instructions: models.InstructionList(result.Instructions),
		PrepTime:     result.PrepTime,
		CookTime:     result.CookTime,
		Servings:     result.Servings,
		Difficulty:   result.Difficulty,
		CuisineType:  result.Cuisine,
		Tags:         models.JSONBStringArray(result.Tags),
		IsPublic:     true,
		Source:       models.SourceTemplate,
		CookingTips:  models.JSONBStringArray(result.CookingTips),
	}
}
