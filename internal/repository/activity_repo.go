package repository

import (
	"context"
	"time"

	"formatech/internal/domain"

	"gorm.io/gorm"
)

type ActivityFilter struct {
	DealID string
	UserID string
	Type   string
	Limit  int
}

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) List(ctx context.Context, f ActivityFilter) ([]domain.Activity, error) {
	q := r.db.WithContext(ctx).
		Model(&domain.Activity{}).
		Preload("User").
		Preload("Deal.Company")

	if f.DealID != "" {
		q = q.Where("deal_id = ?", f.DealID)
	}
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var activities []domain.Activity
	err := q.Order("created_at DESC").Find(&activities).Error
	return activities, err
}

// ListByContact returns the activities logged on the deals of a contact.
func (r *ActivityRepository) ListByContact(ctx context.Context, contactID string, limit int) ([]domain.Activity, error) {
	var activities []domain.Activity
	err := r.db.WithContext(ctx).
		Joins("JOIN deals ON deals.id = activities.deal_id").
		Where("deals.contact_id = ?", contactID).
		Order("activities.created_at DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}

// Create logs a manual activity and bumps the deal's last activity time.
func (r *ActivityRepository) Create(ctx context.Context, a *domain.Activity) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&domain.Deal{}, "id = ?", a.DealID).Error; err != nil {
			return translate(err)
		}
		return translate(insertActivity(tx, a.DealID, a, time.Now()))
	})
}
