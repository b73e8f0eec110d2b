package migration

import (
	"context"
	"fmt"

	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/pkg/xcontext"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Migrators are the versioned migrations which can be run by the migrate
// command. Version 0000 creates the database with the latest schema, so there
// is no need to run the others after it.
var Migrators = map[string]func(context.Context) error{
	"0000": migrate0000,
	"0001": migrate0001,
	"0002": migrate0002,
}

// Versions returns the migration versions in ascending order.
func Versions() []string {
	versions := maps.Keys(Migrators)
	slices.Sort(versions)
	return versions
}

// Run executes the migration of the given version.
func Run(ctx context.Context, version string) error {
	migrator, ok := Migrators[version]
	if !ok {
		return fmt.Errorf("not found migration version %s", version)
	}

	xcontext.Logger(ctx).Infof("Running migration %s", version)
	return migrator(ctx)
}

func migrate0000(ctx context.Context) error {
	return entity.MigrateTable(ctx)
}
