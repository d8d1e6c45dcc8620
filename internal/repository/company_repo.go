package repository

import (
	"context"

	"formatech/internal/domain"

	"gorm.io/gorm"
)

type CompanyFilter struct {
	Search   string
	Sector   string
	Size     string
	Status   string
	Priority string
}

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) List(ctx context.Context, f CompanyFilter) ([]domain.Company, error) {
	q := r.db.WithContext(ctx).Model(&domain.Company{})

	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name LIKE ? OR siren LIKE ?", like, like)
	}
	if f.Sector != "" {
		q = q.Where("sector = ?", f.Sector)
	}
	if f.Size != "" {
		q = q.Where("size = ?", f.Size)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}

	var companies []domain.Company
	err := q.Order("name").Find(&companies).Error
	return companies, err
}

func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	var c domain.Company
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CompanyRepository) Create(ctx context.Context, c *domain.Company) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *CompanyRepository) Update(ctx context.Context, c *domain.Company) error {
	return translate(r.db.WithContext(ctx).Save(c).Error)
}

func (r *CompanyRepository) UpdateStatus(ctx context.Context, id string, status domain.CompanyStatus) error {
	res := r.db.WithContext(ctx).Model(&domain.Company{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the company and its deals, and detaches its contacts.
func (r *CompanyRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&domain.Company{}, "id = ?", id).Error; err != nil {
			return translate(err)
		}
		if err := deleteDealsWhere(tx, "company_id = ?", id); err != nil {
			return err
		}
		if err := tx.Model(&domain.Contact{}).Where("company_id = ?", id).Update("company_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Company{}, "id = ?", id).Error
	})
}
