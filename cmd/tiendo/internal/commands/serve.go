package commands

import (
	"context"
	"net/http"

	tiendo "github.com/bl815v/Tiendo"
	"github.com/bl815v/Tiendo/pkg/store"
)

type ServeCmd struct {
	Database DatabaseFlags `embed:""`
	App      AppFlags      `embed:""`
}

func (c *ServeCmd) Run(ctx context.Context, globals *Globals) error {
	log := globals.Logger
	log.Info("starting server", "version", globals.Version)

	st, err := store.Open(ctx, c.Database.URL, log, c.App.storeConfig())
	if err != nil {
		return err
	}
	defer st.Close()

	srv, err := newServer(st, globals, &c.App)
	if err != nil {
		return err
	}
	return runHTTPServer(ctx, log, srv)
}

func newServer(st *store.Store, globals *Globals, app *AppFlags) (*http.Server, error) {
	t, err := tiendo.New(
		tiendo.WithLogger(globals.Logger),
		tiendo.WithStore(st),
		tiendo.WithAdmin(app.AdminUser, app.AdminPass),
		tiendo.WithCookieSecure(app.CookieSecure),
		tiendo.WithCORSOrigins(app.CORSOrigins...),
	)
	if err != nil {
		return nil, err
	}
	return configureHTTPServer(app.Listen, t.Handler()), nil
}
