package main

import (
	"context"
	"fmt"

	"inspections/internal/db"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var migrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "Create the inspections and inspection_images tables",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c, 0)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := requireDatabase(cfg); err != nil {
			return err
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, dbOptions(cfg))
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		if err := db.Migrate(ctx, pool); err != nil {
			return err
		}

		logrus.WithField("schema", cfg.DatabaseSchema).Info("schema applied")
		return nil
	},
}
