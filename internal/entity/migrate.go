package entity

import (
	"context"

	"github.com/droplabz/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&Community{},
		&Event{},
		&Requirement{},
		&Entry{},
		&Winner{},
		&OAuth2{},
		&AuditLog{},
	)
}
