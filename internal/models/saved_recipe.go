package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SavedRecipe links a user to a recipe they saved from the generator or
// the community feed. The unique (user_id, recipe_id) pair makes repeat
// saves a no-op at the database level.
type SavedRecipe struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SavedAt  time.Time `gorm:"autoCreateTime" json:"saved_at"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_saved_recipes_user_recipe" json:"user_id"`
	RecipeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_saved_recipes_user_recipe" json:"recipe_id"`
	Source   string    `gorm:"size:50;default:'recipe_generator'" json:"source"`
}

func (SavedRecipe) TableName() string {
	return "saved_recipes"
}

func (s *SavedRecipe) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
