package domain

import (
	"context"

	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/internal/repository"
	"github.com/droplabz/backend/pkg/xcontext"
	"github.com/google/uuid"
)

// recordAudit stores an audit log of the requesting user in the community.
func recordAudit(
	ctx context.Context,
	auditLogRepo repository.AuditLogRepository,
	communityID string,
	action entity.AuditAction,
	meta entity.Map,
) error {
	return auditLogRepo.Create(ctx, &entity.AuditLog{
		Base:        entity.Base{ID: uuid.NewString()},
		CommunityID: communityID,
		ActorID:     xcontext.RequestUserID(ctx),
		Action:      action,
		Meta:        meta,
	})
}
