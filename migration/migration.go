package migration

import (
	"context"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/luckywalk/backend/internal/entity"
	"github.com/luckywalk/backend/pkg/xcontext"
)

//go:embed mysql/*.sql
var mysqlFS embed.FS

// Migrate applies the embedded versioned mysql migrations. The binary carries
// its own migration files so nothing else has to be shipped.
func Migrate(ctx context.Context) error {
	db, err := xcontext.DB(ctx).DB()
	if err != nil {
		return err
	}

	source, err := iofs.New(mysqlFS, "mysql")
	if err != nil {
		return err
	}

	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance(
		"iofs", source, xcontext.Configs(ctx).Database.Database, driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}

	xcontext.Logger(ctx).Infof("Database is at version %d (dirty=%t)", version, dirty)
	return nil
}

// AutoMigrate lets gorm create the schema from the entities. It is used by
// local environments and tests; when this is called, Migrate is not needed.
func AutoMigrate(ctx context.Context) error {
	return entity.MigrateTable(ctx)
}
