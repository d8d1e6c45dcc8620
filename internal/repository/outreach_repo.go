package repository

import (
	"context"

	"formatech/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OutreachRepository struct {
	db *gorm.DB
}

func NewOutreachRepository(db *gorm.DB) *OutreachRepository {
	return &OutreachRepository{db: db}
}

// LogEmail stores the email log and the matching interaction together.
func (r *OutreachRepository) LogEmail(ctx context.Context, log *domain.EmailLog, in *domain.Interaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(log).Error; err != nil {
			return err
		}
		if in == nil {
			return nil
		}
		return tx.Omit(clause.Associations).Create(in).Error
	})
}

func (r *OutreachRepository) RecentInteractions(ctx context.Context, contactID string, limit int) ([]domain.Interaction, error) {
	var out []domain.Interaction
	err := r.db.WithContext(ctx).
		Where("contact_id = ?", contactID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *OutreachRepository) EmailLogs(ctx context.Context, contactID string) ([]domain.EmailLog, error) {
	var out []domain.EmailLog
	err := r.db.WithContext(ctx).
		Where("contact_id = ?", contactID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

type WhitepaperRepository struct {
	db *gorm.DB
}

func NewWhitepaperRepository(db *gorm.DB) *WhitepaperRepository {
	return &WhitepaperRepository{db: db}
}

func (r *WhitepaperRepository) List(ctx context.Context) ([]domain.Whitepaper, error) {
	var out []domain.Whitepaper
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *WhitepaperRepository) GetByID(ctx context.Context, id string) (*domain.Whitepaper, error) {
	var w domain.Whitepaper
	if err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &w, nil
}

func (r *WhitepaperRepository) Create(ctx context.Context, w *domain.Whitepaper) error {
	return translate(r.db.WithContext(ctx).Create(w).Error)
}

func (r *WhitepaperRepository) Update(ctx context.Context, w *domain.Whitepaper) error {
	return translate(r.db.WithContext(ctx).Save(w).Error)
}

func (r *WhitepaperRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&domain.Whitepaper{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
