package repository

import (
	"context"

	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/pkg/xcontext"
)

type RequirementRepository interface {
	Create(ctx context.Context, requirements ...*entity.Requirement) error
	GetByEventID(ctx context.Context, eventID string) ([]entity.Requirement, error)
}

type requirementRepository struct{}

func NewRequirementRepository() *requirementRepository {
	return &requirementRepository{}
}

func (r *requirementRepository) Create(ctx context.Context, requirements ...*entity.Requirement) error {
	if len(requirements) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Create(requirements).Error
}

func (r *requirementRepository) GetByEventID(ctx context.Context, eventID string) ([]entity.Requirement, error) {
	var result []entity.Requirement
	err := xcontext.DB(ctx).Where("event_id=?", eventID).Order("created_at ASC").Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
