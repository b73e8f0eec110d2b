package repository

import (
	"context"

	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/pkg/xcontext"
)

type WinnerRepository interface {
	Create(ctx context.Context, winners ...*entity.Winner) error
	GetByEventID(ctx context.Context, eventID string) ([]entity.Winner, error)
	Count(ctx context.Context, eventID string) (int64, error)

	// DeleteByEntryIDs removes the winners permanently and returns the number
	// of removed rows.
	DeleteByEntryIDs(ctx context.Context, eventID string, entryIDs []string) (int64, error)
}

type winnerRepository struct{}

func NewWinnerRepository() *winnerRepository {
	return &winnerRepository{}
}

func (r *winnerRepository) Create(ctx context.Context, winners ...*entity.Winner) error {
	if len(winners) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Create(winners).Error
}

func (r *winnerRepository) GetByEventID(ctx context.Context, eventID string) ([]entity.Winner, error) {
	var result []entity.Winner
	err := xcontext.DB(ctx).Where("event_id=?", eventID).Order("picked_at DESC").Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *winnerRepository) Count(ctx context.Context, eventID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Winner{}).Where("event_id=?", eventID).Count(&count).Error
	return count, err
}

func (r *winnerRepository) DeleteByEntryIDs(ctx context.Context, eventID string, entryIDs []string) (int64, error) {
	if len(entryIDs) == 0 {
		return 0, nil
	}

	tx := xcontext.DB(ctx).Unscoped().
		Where("event_id=? AND entry_id IN (?)", eventID, entryIDs).
		Delete(&entity.Winner{})

	return tx.RowsAffected, tx.Error
}
