package models

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Difficulty values are stored capitalized. Clients may send any casing;
// handlers normalize before the value reaches the database.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// NormalizeDifficulty maps any casing of a difficulty label onto its
// canonical form. Unknown labels return the empty string.
func NormalizeDifficulty(d string) string {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "easy":
		return DifficultyEasy
	case "medium":
		return DifficultyMedium
	case "hard":
		return DifficultyHard
	default:
		return ""
	}
}

// Recipe source tags. External and generated recipes keep the tag of the
// provider that produced them; user-authored recipes are tagged "user".
const (
	SourceUser        = "user"
	SourceSpoonacular = "spoonacular"
	SourceMealDB      = "mealdb"
	SourceLLM         = "ai"
	SourceTemplate    = "template"
)

// Ingredient is one entry of a recipe's JSONB ingredient list.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	Category string `json:"category"`
}

// Instruction is one ordered step of a recipe. Step numbers are contiguous
// from 1; duration is in minutes.
type Instruction struct {
	Step        int    `json:"step"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
}

// Nutrition is the optional per-recipe nutrition block.
type Nutrition struct {
	Calories string `json:"calories,omitempty"`
	Protein  string `json:"protein,omitempty"`
	Carbs    string `json:"carbs,omitempty"`
	Fat      string `json:"fat,omitempty"`
}

// Comment is one entry of a recipe's JSONB comment list.
type Comment struct {
	UserID    uuid.UUID `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// IngredientList is a custom type for handling ingredient arrays in JSONB
type IngredientList []Ingredient

// Value implements the driver.Valuer interface
func (l IngredientList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *IngredientList) Scan(value interface{}) error {
	return scanJSON(value, l, func() { *l = IngredientList{} })
}

// InstructionList is a custom type for handling instruction arrays in JSONB
type InstructionList []Instruction

// Value implements the driver.Valuer interface
func (l InstructionList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *InstructionList) Scan(value interface{}) error {
	return scanJSON(value, l, func() { *l = InstructionList{} })
}

// CommentList is a custom type for handling comment arrays in JSONB
type CommentList []Comment

// Value implements the driver.Valuer interface
func (l CommentList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *CommentList) Scan(value interface{}) error {
	return scanJSON(value, l, func() { *l = CommentList{} })
}

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	return scanJSON(value, a, func() { *a = JSONBStringArray{} })
}

// NutritionInfo wraps Nutrition for JSONB storage.
type NutritionInfo Nutrition

// Value implements the driver.Valuer interface
func (n NutritionInfo) Value() (driver.Value, error) {
	return json.Marshal(n)
}

// Scan implements the sql.Scanner interface
func (n *NutritionInfo) Scan(value interface{}) error {
	return scanJSON(value, n, func() { *n = NutritionInfo{} })
}

func scanJSON(value interface{}, dest interface{}, reset func()) error {
	if value == nil {
		reset()
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, dest)
}

type Recipe struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`
	UserID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	Title        string           `gorm:"size:255;not null" json:"title"`
	Description  string           `gorm:"type:text" json:"description"`
	Ingredients  IngredientList   `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Instructions InstructionList  `gorm:"type:jsonb;not null;default:'[]'" json:"instructions"`
	PrepTime     int              `json:"prep_time"`
	CookTime     int              `json:"cook_time"`
	Servings     int              `json:"servings"`
	Difficulty   string           `gorm:"size:20;default:'Easy'" json:"difficulty"`
	CuisineType  string           `gorm:"size:50" json:"cuisine_type"`
	Tags         JSONBStringArray `gorm:"type:jsonb;default:'[]'" json:"tags"`
	ImageURL     string           `gorm:"size:255" json:"image_url"`
	IsPublic     bool             `gorm:"default:true" json:"is_public"`
	Source       string           `gorm:"size:50;default:'user'" json:"source"`
	NutritionInfo NutritionInfo   `gorm:"type:jsonb;default:'{}'" json:"nutrition_info"`
	CookingTips  JSONBStringArray `gorm:"type:jsonb;default:'[]'" json:"cooking_tips"`
	Comments     CommentList      `gorm:"type:jsonb;default:'[]'" json:"comments"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecipeLike is one user's like of one recipe. The composite unique index
// makes toggling atomic: a concurrent duplicate insert fails instead of
// producing a second row.
type RecipeLike struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_likes_recipe_user" json:"recipe_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_likes_recipe_user" json:"user_id"`
}

func (RecipeLike) TableName() string {
	return "recipe_likes"
}

func (l *RecipeLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// RecipeBookmark is one user's bookmark of one recipe.
type RecipeBookmark struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_bookmarks_recipe_user" json:"recipe_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_bookmarks_recipe_user" json:"user_id"`
}

func (RecipeBookmark) TableName() string {
	return "recipe_bookmarks"
}

func (b *RecipeBookmark) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
