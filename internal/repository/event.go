package repository

import (
	"context"
	"time"

	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	GetByID(ctx context.Context, eventID string) (*entity.Event, error)
	UpdateStatus(ctx context.Context, eventID string, status entity.EventStatus) error
	UpdateAutoDraw(ctx context.Context, eventID string, autoDraw bool) error
	GetEndedAutoDrawEvents(ctx context.Context, now time.Time) ([]entity.Event, error)

	// ReserveSpots atomically increases the winner counter by n if the event
	// still has n free spots. It returns gorm.ErrRecordNotFound otherwise.
	ReserveSpots(ctx context.Context, eventID string, n int) error

	// ReleaseSpots decreases the winner counter by n.
	ReleaseSpots(ctx context.Context, eventID string, n int) error
}

type eventRepository struct{}

func NewEventRepository() *eventRepository {
	return &eventRepository{}
}

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	return xcontext.DB(ctx).Create(event).Error
}

func (r *eventRepository) GetByID(ctx context.Context, eventID string) (*entity.Event, error) {
	var result entity.Event
	if err := xcontext.DB(ctx).Take(&result, "id=?", eventID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *eventRepository) UpdateStatus(ctx context.Context, eventID string, status entity.EventStatus) error {
	tx := xcontext.DB(ctx).Model(&entity.Event{}).
		Where("id=?", eventID).
		Update("status", status)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *eventRepository) UpdateAutoDraw(ctx context.Context, eventID string, autoDraw bool) error {
	tx := xcontext.DB(ctx).Model(&entity.Event{}).
		Where("id=?", eventID).
		Update("auto_draw", autoDraw)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *eventRepository) GetEndedAutoDrawEvents(ctx context.Context, now time.Time) ([]entity.Event, error) {
	var result []entity.Event
	err := xcontext.DB(ctx).
		Where("status=? AND selection_mode=? AND auto_draw=? AND end_at<=?",
			entity.EventStatusActive, entity.SelectionModeRandom, true, now).
		Order("end_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *eventRepository) ReserveSpots(ctx context.Context, eventID string, n int) error {
	tx := xcontext.DB(ctx).Model(&entity.Event{}).
		Where("id=? AND winner_count+? <= max_winners-reserved_spots", eventID, n).
		Update("winner_count", gorm.Expr("winner_count+?", n))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *eventRepository) ReleaseSpots(ctx context.Context, eventID string, n int) error {
	return xcontext.DB(ctx).Model(&entity.Event{}).
		Where("id=? AND winner_count>=?", eventID, n).
		Update("winner_count", gorm.Expr("winner_count-?", n)).Error
}
