package commands

import (
	"context"
	"errors"

	"github.com/bl815v/Tiendo/internal/seed"
	"github.com/bl815v/Tiendo/pkg/store"
)

type SeedCmd struct {
	Database DatabaseFlags `embed:""`

	Force      bool  `help:"seed even when products already exist"`
	Seed       int64 `help:"random seed, the same seed yields the same data" default:"42"`
	Categories int   `help:"categories to create" default:"5"`
	Products   int   `help:"products to create" default:"40"`
	Customers  int   `help:"customers to create" default:"20"`
	Orders     int   `help:"orders to create" default:"30"`
}

func (c *SeedCmd) Validate() error {
	if c.Categories < 1 || c.Products < 0 || c.Customers < 0 || c.Orders < 0 {
		return errors.New("seed counts must not be negative and at least one category is needed")
	}
	if c.Orders > 0 && (c.Customers == 0 || c.Products == 0) {
		return errors.New("orders need at least one customer and one product")
	}
	return nil
}

func (c *SeedCmd) Run(ctx context.Context, globals *Globals) error {
	log := globals.Logger

	st, err := store.Open(ctx, c.Database.URL, log, store.Config{SessionSweepInterval: -1})
	if err != nil {
		return err
	}
	defer st.Close()

	res, err := seed.New(log, st.Auth, st.Shop).Run(ctx, seed.Config{
		Seed:       c.Seed,
		Categories: c.Categories,
		Products:   c.Products,
		Customers:  c.Customers,
		Orders:     c.Orders,
		Force:      c.Force,
	})
	if err != nil {
		return err
	}

	if res.Skipped {
		log.Info("catalogue already has products, nothing seeded (use --force)")
		return nil
	}
	log.Info("seeded database",
		"categories", res.Categories,
		"products", res.Products,
		"customers", res.Customers,
		"orders", res.Orders,
		"payments", res.Payments,
		"shipments", res.Shipments,
		"customer_password", seed.DefaultPassword,
	)
	return nil
}
