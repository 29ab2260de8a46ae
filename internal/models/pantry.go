package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Pantry item categories. CategoryProduce is the default when a client
// omits the field.
const (
	CategoryProtein    = "protein"
	CategoryProduce    = "produce"
	CategoryGrains     = "grains"
	CategoryCondiments = "condiments"
	CategoryDairy      = "dairy"
	CategorySpices     = "spices"
)

// PantryCategories lists the valid category values in display order.
var PantryCategories = []string{
	CategoryProtein,
	CategoryProduce,
	CategoryGrains,
	CategoryCondiments,
	CategoryDairy,
	CategorySpices,
}

// ValidCategory reports whether c is one of the six pantry categories.
func ValidCategory(c string) bool {
	for _, v := range PantryCategories {
		if v == c {
			return true
		}
	}
	return false
}

// PantryItem is one ingredient in a user's pantry inventory.
type PantryItem struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	IngredientName string         `gorm:"size:100;not null" json:"name"`
	Quantity       string         `gorm:"size:50;not null" json:"quantity"`
	Unit           string         `gorm:"size:50" json:"unit"`
	Category       string         `gorm:"size:20;not null;default:'produce'" json:"category"`
	ExpiryDate     *time.Time     `json:"expiry_date,omitempty"`
}

func (PantryItem) TableName() string {
	return "pantry_items"
}

func (p *PantryItem) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Category == "" {
		p.Category = CategoryProduce
	}
	return nil
}
