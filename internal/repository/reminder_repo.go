package repository

import (
	"context"

	"formatech/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReminderKey struct {
	DealID string
	Type   domain.ReminderType
}

type ReminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// Sync makes the reminders table match the fired set:
// fired reminders are inserted or get their message refreshed (read state is kept),
// unread reminders that no longer fire are removed. Read ones are left alone.
func (r *ReminderRepository) Sync(ctx context.Context, fired []domain.Reminder) (upserted, removed int64, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		live := make(map[ReminderKey]bool, len(fired))
		for i := range fired {
			rem := fired[i]
			live[ReminderKey{DealID: rem.DealID, Type: rem.Type}] = true
			if rem.ID == "" {
				rem.ID = uuid.NewString()
			}

			res := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "deal_id"}, {Name: "type"}},
				DoUpdates: clause.AssignmentColumns([]string{"message"}),
			}).Create(&rem)
			if res.Error != nil {
				return res.Error
			}
		}

		var unread []domain.Reminder
		if err := tx.Select("id", "deal_id", "type").Where("is_read = ?", false).Find(&unread).Error; err != nil {
			return err
		}
		var stale []string
		for _, rem := range unread {
			if !live[ReminderKey{DealID: rem.DealID, Type: rem.Type}] {
				stale = append(stale, rem.ID)
			}
		}
		if len(stale) > 0 {
			res := tx.Where("id IN ?", stale).Delete(&domain.Reminder{})
			if res.Error != nil {
				return res.Error
			}
			removed = res.RowsAffected
		}
		upserted = int64(len(fired))
		return nil
	})
	return upserted, removed, err
}

func (r *ReminderRepository) List(ctx context.Context, isRead *bool) ([]domain.Reminder, error) {
	q := r.db.WithContext(ctx).
		Model(&domain.Reminder{}).
		Preload("Deal.Company")
	if isRead != nil {
		q = q.Where("is_read = ?", *isRead)
	}

	var reminders []domain.Reminder
	err := q.Order("created_at DESC").Find(&reminders).Error
	return reminders, err
}

func (r *ReminderRepository) CountUnread(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Reminder{}).Where("is_read = ?", false).Count(&n).Error
	return n, err
}

func (r *ReminderRepository) MarkRead(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&domain.Reminder{}).Where("id = ?", id).Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ReminderRepository) MarkAllRead(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Reminder{}).Where("is_read = ?", false).Update("is_read", true)
	return res.RowsAffected, res.Error
}
