package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"inspections/internal/db"
	"inspections/internal/seed"
	"inspections/internal/store"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with demo inspections",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"c"},
			Usage:   "Number of inspections to create",
			Value:   10,
		},
		&cli.BoolFlag{
			Name:  "print",
			Usage: "Pretty-print the created inspections",
		},
	},
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

		logrus.Info("Connected to database")

		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		created, err := seed.Inspections(ctx, store.NewInspectionRepository(pool), store.NewImageRepository(pool), c.Int("count"), rng)
		if err != nil {
			return fmt.Errorf("failed to seed inspections: %w", err)
		}

		if c.Bool("print") {
			pp.Println(created)
		}

		logrus.WithField("count", len(created)).Info("Inspections seeded successfully")
		return nil
	},
}
