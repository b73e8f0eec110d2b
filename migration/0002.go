package migration

import (
	"context"

	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/pkg/xcontext"
)

// migrate0002 creates the audit log table.
func migrate0002(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(&entity.AuditLog{})
}
