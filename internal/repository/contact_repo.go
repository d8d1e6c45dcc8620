package repository

import (
	"context"
	"strings"

	"formatech/internal/domain"

	"gorm.io/gorm"
)

type ContactFilter struct {
	Search          string
	CompanyID       string
	IsDecisionMaker string
	Status          string
}

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) List(ctx context.Context, f ContactFilter) ([]domain.Contact, error) {
	q := r.db.WithContext(ctx).Model(&domain.Contact{}).Preload("Company")

	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", like, like, like)
	}
	if f.CompanyID != "" {
		q = q.Where("company_id = ?", f.CompanyID)
	}
	if f.IsDecisionMaker != "" {
		q = q.Where("is_decision_maker = ?", f.IsDecisionMaker)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var contacts []domain.Contact
	err := q.Order("last_name, first_name").Find(&contacts).Error
	return contacts, err
}

func (r *ContactRepository) ListByCompany(ctx context.Context, companyID string) ([]domain.Contact, error) {
	var contacts []domain.Contact
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("last_name, first_name").
		Find(&contacts).Error
	return contacts, err
}

func (r *ContactRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	var c domain.Contact
	if err := r.db.WithContext(ctx).Preload("Company").First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *ContactRepository) FindByEmail(ctx context.Context, email string) (*domain.Contact, error) {
	var c domain.Contact
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&c).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// FindInCompany looks a contact up by email or LinkedIn URL within one company.
func (r *ContactRepository) FindInCompany(ctx context.Context, companyID, email, linkedinURL string) (*domain.Contact, error) {
	if email == "" && linkedinURL == "" {
		return nil, ErrNotFound
	}

	q := r.db.WithContext(ctx).Where("company_id = ?", companyID)
	switch {
	case email != "" && linkedinURL != "":
		q = q.Where("email = ? OR linkedin_url = ?", email, linkedinURL)
	case email != "":
		q = q.Where("email = ?", email)
	default:
		q = q.Where("linkedin_url = ?", linkedinURL)
	}

	var c domain.Contact
	if err := q.First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *ContactRepository) Create(ctx context.Context, c *domain.Contact) error {
	return translate(r.db.WithContext(ctx).Omit("Company").Create(c).Error)
}

func (r *ContactRepository) Update(ctx context.Context, c *domain.Contact) error {
	return translate(r.db.WithContext(ctx).Omit("Company").Save(c).Error)
}

// RecordOutreach moves a fresh contact to CONTACTED and bumps its engagement.
func (r *ContactRepository) RecordOutreach(ctx context.Context, id string, points int) error {
	return r.db.WithContext(ctx).
		Model(&domain.Contact{}).
		Where("id = ? AND status IN ?", id, []domain.ContactStatus{domain.ContactNew, domain.ContactToContact}).
		Updates(map[string]any{
			"status":           domain.ContactContacted,
			"engagement_score": gorm.Expr("engagement_score + ?", points),
		}).Error
}

// Delete removes the contact and the deals it is the counterpart of.
func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&domain.Contact{}, "id = ?", id).Error; err != nil {
			return translate(err)
		}
		if err := deleteDealsWhere(tx, "contact_id = ?", id); err != nil {
			return err
		}
		if err := tx.Where("contact_id = ?", id).Delete(&domain.EmailLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("contact_id = ?", id).Delete(&domain.Interaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Contact{}, "id = ?", id).Error
	})
}
