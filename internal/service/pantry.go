package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flavorcraft/backend/internal/models"
)

// PantryService handles a user's ingredient inventory. Every operation
// is scoped to the owning user; items are never visible across accounts.
type PantryService struct {
	db *gorm.DB
}

func NewPantryService(db *gorm.DB) *PantryService {
	return &PantryService{db: db}
}

// ListItems returns the user's pantry, newest first.
func (s *PantryService) ListItems(ctx context.Context, userID uuid.UUID) ([]models.PantryItem, error) {
	var items []models.PantryItem
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListByCategory groups the user's pantry by category. Every category
// appears in the result, empty ones included, so clients can render a
// stable set of sections.
func (s *PantryService) ListByCategory(ctx context.Context, userID uuid.UUID) (map[string][]models.PantryItem, error) {
	items, err := s.ListItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]models.PantryItem, len(models.PantryCategories))
	for _, category := range models.PantryCategories {
		grouped[category] = []models.PantryItem{}
	}
	for _, item := range items {
		grouped[item.Category] = append(grouped[item.Category], item)
	}
	return grouped, nil
}

// AddItem stores a pantry item for the user.
func (s *PantryService) AddItem(ctx context.Context, userID uuid.UUID, item *models.PantryItem) (*models.PantryItem, error) {
	item.UserID = userID
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem applies changes to an item the user owns. An item owned by
// someone else reports ErrNotFound so cross-account probing learns
// nothing.
func (s *PantryService) UpdateItem(ctx context.Context, id, userID uuid.UUID, apply func(*models.PantryItem)) (*models.PantryItem, error) {
	item, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	apply(item)
	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes an item the user owns.
func (s *PantryService) DeleteItem(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.getOwned(ctx, id, userID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&models.PantryItem{}, "id = ?", id).Error
}

func (s *PantryService) getOwned(ctx context.Context, id, userID uuid.UUID) (*models.PantryItem, error) {
	var item models.PantryItem
	err := s.db.WithContext(ctx).First(&item, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}
