package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type GetEntriesFilter struct {
	Status entity.EntryStatus

	// OnlyEligible keeps VALID entries which are not marked as ineligible.
	OnlyEligible bool
}

type EntryRepository interface {
	Create(ctx context.Context, entry *entity.Entry) error
	GetByID(ctx context.Context, entryID string) (*entity.Entry, error)
	GetByWallet(ctx context.Context, eventID, wallet string) (*entity.Entry, error)
	GetByEventID(ctx context.Context, eventID string, filter GetEntriesFilter) ([]entity.Entry, error)
	GetByIDs(ctx context.Context, eventID string, entryIDs []string) ([]entity.Entry, error)
	UpdateVerification(
		ctx context.Context, entryID string, status entity.EntryStatus,
		results []entity.RequirementResult, verifiedAt time.Time,
	) error
	UpdateIneligibility(ctx context.Context, eventID string, entryIDs []string, isIneligible bool, reason string) (int64, error)

	// GetByWalletsInOtherEvents returns the entries of the wallets in every
	// event of the community except the given one.
	GetByWalletsInOtherEvents(ctx context.Context, communityID, eventID string, wallets []string) ([]entity.Entry, error)
}

type entryRepository struct{}

func NewEntryRepository() *entryRepository {
	return &entryRepository{}
}

func (r *entryRepository) Create(ctx context.Context, entry *entity.Entry) error {
	return xcontext.DB(ctx).Create(entry).Error
}

func (r *entryRepository) GetByID(ctx context.Context, entryID string) (*entity.Entry, error) {
	var result entity.Entry
	if err := xcontext.DB(ctx).Take(&result, "id=?", entryID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *entryRepository) GetByWallet(ctx context.Context, eventID, wallet string) (*entity.Entry, error) {
	var result entity.Entry
	err := xcontext.DB(ctx).Take(&result, "event_id=? AND wallet_address=?", eventID, wallet).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *entryRepository) GetByEventID(
	ctx context.Context, eventID string, filter GetEntriesFilter,
) ([]entity.Entry, error) {
	tx := xcontext.DB(ctx).Where("event_id=?", eventID)
	if filter.OnlyEligible {
		tx = tx.Where("status=? AND is_ineligible=?", entity.EntryStatusValid, false)
	} else if filter.Status != "" {
		tx = tx.Where("status=?", filter.Status)
	}

	var result []entity.Entry
	if err := tx.Order("created_at ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *entryRepository) GetByIDs(ctx context.Context, eventID string, entryIDs []string) ([]entity.Entry, error) {
	if len(entryIDs) == 0 {
		return nil, nil
	}

	var result []entity.Entry
	err := xcontext.DB(ctx).Find(&result, "event_id=? AND id IN (?)", eventID, entryIDs).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *entryRepository) UpdateVerification(
	ctx context.Context, entryID string, status entity.EntryStatus,
	results []entity.RequirementResult, verifiedAt time.Time,
) error {
	tx := xcontext.DB(ctx).Model(&entity.Entry{}).
		Where("id=?", entryID).
		Updates(map[string]any{
			"status":              status,
			"verification_result": entity.Array[entity.RequirementResult](results),
			"verified_at":         sql.NullTime{Valid: true, Time: verifiedAt},
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *entryRepository) UpdateIneligibility(
	ctx context.Context, eventID string, entryIDs []string, isIneligible bool, reason string,
) (int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.Entry{}).
		Where("event_id=? AND id IN (?)", eventID, entryIDs).
		Updates(map[string]any{
			"is_ineligible":        isIneligible,
			"ineligibility_reason": reason,
		})

	return tx.RowsAffected, tx.Error
}

func (r *entryRepository) GetByWalletsInOtherEvents(
	ctx context.Context, communityID, eventID string, wallets []string,
) ([]entity.Entry, error) {
	if len(wallets) == 0 {
		return nil, nil
	}

	var result []entity.Entry
	err := xcontext.DB(ctx).Model(&entity.Entry{}).
		Joins("JOIN events ON events.id = entries.event_id").
		Where("events.community_id=? AND entries.event_id<>? AND entries.wallet_address IN (?)",
			communityID, eventID, wallets).
		Order("entries.created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
