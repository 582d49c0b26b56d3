package main

import (
	"github.com/luckywalk/backend/migration"
	"github.com/luckywalk/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(cctx *cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())

	if cctx.Bool("auto") {
		return migration.AutoMigrate(s.ctx)
	}

	return migration.Migrate(s.ctx)
}
