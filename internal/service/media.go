package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flavorcraft/backend/config"
	"github.com/flavorcraft/backend/internal/models"
	"github.com/flavorcraft/backend/internal/types"
)

// Per-file upload ceilings.
const (
	MaxImageSize = 50 << 20  // 50 MB
	MaxVideoSize = 200 << 20 // 200 MB

	// MaxMediaPerRecipe bounds how many objects one recipe can carry.
	MaxMediaPerRecipe = 5
)

// ObjectStore abstracts the blob backend so tests can substitute an
// in-memory store for S3.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

// S3Store is the production ObjectStore backed by the configured bucket.
type S3Store struct {
	cfg *config.S3Config
}

func NewS3Store(cfg *config.S3Config) *S3Store {
	return &S3Store{cfg: cfg}
}

// Put uploads the object and returns its public URL.
func (s *S3Store) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.cfg.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.BucketName),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.cfg.BucketName, key), nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.cfg.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.BucketName),
		Key:    aws.String(key),
	})
	return err
}

// MediaService handles recipe media uploads and attachment rows.
type MediaService struct {
	db    *gorm.DB
	store ObjectStore
}

func NewMediaService(db *gorm.DB, store ObjectStore) *MediaService {
	return &MediaService{db: db, store: store}
}

// Upload streams one file to the object store and returns the stored
// path and URL. Size is validated against the per-type ceiling before
// anything is sent.
func (s *MediaService) Upload(ctx context.Context, userID uuid.UUID, mediaType, fileName, contentType string, size int64, body io.Reader) (*types.AttachMediaItem, error) {
	if s.store == nil {
		return nil, ErrFeatureUnavailable
	}
	limit := int64(MaxImageSize)
	if mediaType == models.MediaTypeVideo {
		limit = MaxVideoSize
	}
	if size <= 0 || size > limit {
		return nil, fmt.Errorf("file size %d exceeds the %d byte limit", size, limit)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	key := fmt.Sprintf("recipe-media/%s/%s%s", userID, uuid.New(), ext)

	url, err := s.store.Put(ctx, key, contentType, io.LimitReader(body, limit))
	if err != nil {
		return nil, err
	}

	return &types.AttachMediaItem{
		MediaType:   mediaType,
		StoragePath: key,
		StorageURL:  url,
		FileName:    fileName,
		FileSize:    size,
	}, nil
}

// Attach links uploaded objects to a recipe the user owns. The combined
// attachment count may not pass MaxMediaPerRecipe.
func (s *MediaService) Attach(ctx context.Context, userID, recipeID uuid.UUID, items []types.AttachMediaItem) ([]models.MediaAttachment, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if recipe.UserID != userID {
		return nil, ErrNotOwner
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.MediaAttachment{}).Where("recipe_id = ?", recipeID).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing+int64(len(items)) > MaxMediaPerRecipe {
		return nil, fmt.Errorf("%w: %d existing, %d requested, limit %d", ErrMediaLimit, existing, len(items), MaxMediaPerRecipe)
	}

	attachments := make([]models.MediaAttachment, 0, len(items))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			attachment := models.MediaAttachment{
				RecipeID:     recipeID,
				UserID:       userID,
				MediaType:    item.MediaType,
				StoragePath:  item.StoragePath,
				StorageURL:   item.StorageURL,
				ThumbnailURL: item.ThumbnailURL,
				FileName:     item.FileName,
				FileSize:     item.FileSize,
				OrderIndex:   item.OrderIndex,
			}
			if err := tx.Create(&attachment).Error; err != nil {
				return err
			}
			attachments = append(attachments, attachment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

// ListForRecipe returns a recipe's attachments in display order.
func (s *MediaService) ListForRecipe(ctx context.Context, recipeID uuid.UUID) ([]models.MediaAttachment, error) {
	var attachments []models.MediaAttachment
	err := s.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("order_index ASC, created_at ASC").
		Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

// Remove deletes an attachment the user owns. The database row is
// authoritative; the stored object is removed best-effort afterwards.
func (s *MediaService) Remove(ctx context.Context, userID, attachmentID uuid.UUID) error {
	var attachment models.MediaAttachment
	if err := s.db.WithContext(ctx).First(&attachment, "id = ?", attachmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}
	if attachment.UserID != userID {
		return ErrNotOwner
	}

	if err := s.db.WithContext(ctx).Delete(&attachment).Error; err != nil {
		return err
	}
	if s.store == nil {
		return nil
	}
	if err := s.store.Delete(ctx, attachment.StoragePath); err != nil {
		log.Printf("[MediaService] failed to delete object %s: %v", attachment.StoragePath, err)
	}
	return nil
}
