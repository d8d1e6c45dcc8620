package repository

import (
	"context"
	"time"

	"formatech/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DealFilter struct {
	Stage     string
	UserID    string
	CompanyID string
	Source    string
	OfferType string
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
}

// MutateFunc changes a loaded deal and returns the activity to log, if any.
type MutateFunc func(d *domain.Deal) (*domain.Activity, error)

type DealRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDealRepository(db *gorm.DB) *DealRepository {
	return &DealRepository{db: db, now: time.Now}
}

func (r *DealRepository) List(ctx context.Context, f DealFilter) ([]domain.Deal, error) {
	q := r.db.WithContext(ctx).
		Model(&domain.Deal{}).
		Preload("Company").
		Preload("Contact").
		Preload("User")

	if f.Stage != "" {
		q = q.Where("deals.stage = ?", f.Stage)
	}
	if f.UserID != "" {
		q = q.Where("deals.user_id = ?", f.UserID)
	}
	if f.CompanyID != "" {
		q = q.Where("deals.company_id = ?", f.CompanyID)
	}
	if f.Source != "" {
		q = q.Where("deals.source = ?", f.Source)
	}
	if f.OfferType != "" {
		q = q.Where("deals.prop_offer_type = ?", f.OfferType)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Joins("LEFT JOIN companies ON companies.id = deals.company_id").
			Joins("LEFT JOIN contacts ON contacts.id = deals.contact_id").
			Where("companies.name LIKE ? OR contacts.first_name LIKE ? OR contacts.last_name LIKE ?", like, like, like)
	}
	if f.StartDate != nil {
		q = q.Where("deals.created_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("deals.created_at <= ?", *f.EndDate)
	}

	var deals []domain.Deal
	err := q.Order("deals.last_activity_at DESC").Find(&deals).Error
	return deals, err
}

// All returns every deal with its company, for rule evaluation and reporting.
func (r *DealRepository) All(ctx context.Context) ([]domain.Deal, error) {
	var deals []domain.Deal
	err := r.db.WithContext(ctx).
		Preload("Company").
		Preload("User").
		Order("created_at DESC").
		Find(&deals).Error
	return deals, err
}

func (r *DealRepository) GetByID(ctx context.Context, id string) (*domain.Deal, error) {
	var d domain.Deal
	err := r.db.WithContext(ctx).
		Preload("Company").
		Preload("Contact").
		Preload("User").
		First(&d, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

// Create inserts the deal and its creation activity atomically.
func (r *DealRepository) Create(ctx context.Context, d *domain.Deal, a *domain.Activity) error {
	now := r.now()
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.EntryDate.IsZero() {
		d.EntryDate = now
	}
	d.LastActivityAt = now

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(d).Error; err != nil {
			return translate(err)
		}
		if a == nil {
			return nil
		}
		return translate(insertActivity(tx, d.ID, a, now))
	})
}

// Mutate loads the deal, applies fn, saves it and appends the returned
// activity, all in one transaction. Concurrent writers: last write wins.
func (r *DealRepository) Mutate(ctx context.Context, id string, fn MutateFunc) (*domain.Deal, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var d domain.Deal
		if err := tx.First(&d, "id = ?", id).Error; err != nil {
			return translate(err)
		}

		a, err := fn(&d)
		if err != nil {
			return err
		}

		now := r.now()
		if a != nil {
			d.LastActivityAt = now
		}
		if err := tx.Omit(clause.Associations).Save(&d).Error; err != nil {
			return translate(err)
		}
		if a == nil {
			return nil
		}
		return translate(insertActivity(tx, d.ID, a, now))
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *DealRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&domain.Deal{}, "id = ?", id).Error; err != nil {
			return translate(err)
		}
		return deleteDealsWhere(tx, "id = ?", id)
	})
}

func insertActivity(tx *gorm.DB, dealID string, a *domain.Activity, now time.Time) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.DealID = dealID
	a.CreatedAt = now
	if err := tx.Omit(clause.Associations).Create(a).Error; err != nil {
		return err
	}
	return tx.Model(&domain.Deal{}).Where("id = ?", dealID).UpdateColumn("last_activity_at", now).Error
}
