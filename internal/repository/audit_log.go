package repository

import (
	"context"

	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/pkg/xcontext"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	GetByCommunityID(ctx context.Context, communityID string, limit int) ([]entity.AuditLog, error)
}

type auditLogRepository struct{}

func NewAuditLogRepository() *auditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	return xcontext.DB(ctx).Create(log).Error
}

// GetByCommunityID returns the latest logs of the community first.
func (r *auditLogRepository) GetByCommunityID(
	ctx context.Context, communityID string, limit int,
) ([]entity.AuditLog, error) {
	var result []entity.AuditLog
	tx := xcontext.DB(ctx).Where("community_id=?", communityID).Order("created_at DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}
