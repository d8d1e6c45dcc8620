package repository

import (
	"formatech/internal/domain"

	"gorm.io/gorm"
)

// deleteDealsWhere removes the matching deals and everything hanging off them.
// The foreign keys cascade as well; doing it explicitly keeps SQLite databases
// opened without foreign_keys consistent.
func deleteDealsWhere(tx *gorm.DB, query string, args ...any) error {
	var ids []string
	if err := tx.Model(&domain.Deal{}).Where(query, args...).Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("deal_id IN ?", ids).Delete(&domain.Reminder{}).Error; err != nil {
		return err
	}
	if err := tx.Where("deal_id IN ?", ids).Delete(&domain.Activity{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&domain.Deal{}).Error
}
