package commands

import (
	"context"

	"github.com/bl815v/Tiendo/pkg/store"
)

// MigrateCmd applies the schema and exits. Opening the store migrates.
type MigrateCmd struct {
	Database DatabaseFlags `embed:""`
}

func (c *MigrateCmd) Run(ctx context.Context, globals *Globals) error {
	st, err := store.Open(ctx, c.Database.URL, globals.Logger, store.Config{SessionSweepInterval: -1})
	if err != nil {
		return err
	}
	defer st.Close()

	globals.Logger.Info("database is up to date", "dialect", st.Dialect())
	return nil
}
