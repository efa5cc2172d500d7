package repository

import (
	"context"
	"errors"
	"time"

	"stitchhub/internal/cache"
	"stitchhub/internal/models"
	"stitchhub/internal/observability"

	"gorm.io/gorm"
)

// DesignRepository defines persistence operations for gallery submissions.
type DesignRepository interface {
	Create(ctx context.Context, design *models.Design) error
	GetByID(ctx context.Context, id uint) (*models.Design, error)
	ListPage(ctx context.Context, offset, limit int) ([]*models.Design, int64, error)
	ListForOwner(ctx context.Context, ownerID uint) ([]*models.Design, error)
	Delete(ctx context.Context, id, ownerID uint) error
}

type designRepository struct {
	db *gorm.DB
}

// NewDesignRepository returns a new DesignRepository implementation.
func NewDesignRepository(db *gorm.DB) DesignRepository {
	return &designRepository{db: db}
}

func (r *designRepository) Create(ctx context.Context, design *models.Design) error {
	start := time.Now()
	err := r.db.WithContext(ctx).Create(design).Error
	observability.ObserveQuery("insert", "designs", start)
	if err != nil {
		return models.NewStoreError("Failed to save design", err)
	}

	// Re-read with the author joined so callers can map to the display model
	// without a second round trip.
	if err := r.db.WithContext(ctx).Preload("User").First(design, design.ID).Error; err != nil {
		return models.NewInternalError(err)
	}

	cache.InvalidateFeed(ctx)
	return nil
}

func (r *designRepository) GetByID(ctx context.Context, id uint) (*models.Design, error) {
	var design models.Design
	key := cache.DesignKey(id)

	err := cache.Aside(ctx, key, &design, cache.DesignTTL, func() error {
		if err := r.db.WithContext(ctx).Preload("User").First(&design, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Design", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &design, nil
}

// ListPage returns one feed page ordered newest first, plus the exact total
// row count so callers can decide whether more pages remain. Ties on
// created_at break on id so the ordering is stable across requests.
func (r *designRepository) ListPage(ctx context.Context, offset, limit int) ([]*models.Design, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Design{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var designs []*models.Design
	start := time.Now()
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&designs).Error
	observability.ObserveQuery("select", "designs", start)
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return designs, total, nil
}

func (r *designRepository) ListForOwner(ctx context.Context, ownerID uint) ([]*models.Design, error) {
	var designs []*models.Design
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&designs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return designs, nil
}

// Delete removes a design only if it belongs to ownerID. Ownership lives in
// the WHERE clause so a non-owner can never race past a separate check.
func (r *designRepository) Delete(ctx context.Context, id, ownerID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&models.Design{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}

	if res.RowsAffected == 0 {
		// Distinguish "never existed" from "exists but not yours".
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Design{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		if count == 0 {
			return models.NewNotFoundError("Design", id)
		}
		return models.NewStoreError("You can only delete your own designs", nil)
	}

	cache.InvalidateDesign(ctx, id)
	cache.InvalidateFeed(ctx)
	return nil
}
