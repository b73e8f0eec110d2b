package migration

import (
	"context"

	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/pkg/xcontext"
)

// migrate0001 adds the index used to find ended auto draw events.
func migrate0001(ctx context.Context) error {
	migrator := xcontext.DB(ctx).Migrator()
	if migrator.HasIndex(&entity.Event{}, "idx_events_auto_draw") {
		return nil
	}

	return migrator.CreateIndex(&entity.Event{}, "idx_events_auto_draw")
}
