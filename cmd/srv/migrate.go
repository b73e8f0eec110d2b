package main

import (
	"github.com/droplabz/backend/migration"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(cctx *cli.Context) error {
	if err := s.loadDatabase(); err != nil {
		return err
	}

	if version := cctx.String("version"); version != "" {
		return migration.Run(s.ctx, version)
	}

	for _, version := range migration.Versions() {
		if err := migration.Run(s.ctx, version); err != nil {
			return err
		}
	}

	return nil
}
