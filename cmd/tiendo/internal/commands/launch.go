package commands

import (
	"context"
	"net"

	"github.com/bl815v/Tiendo/internal/launcher"
	"github.com/bl815v/Tiendo/pkg/store"
)

// LaunchCmd runs the storefront as a desktop app: the server starts in the
// background and the index page opens in the system browser once it answers.
type LaunchCmd struct {
	Database DatabaseFlags `embed:""`
	App      AppFlags      `embed:""`
}

func (c *LaunchCmd) Run(ctx context.Context, globals *Globals) error {
	log := globals.Logger

	st, err := store.Open(ctx, c.Database.URL, log, c.App.storeConfig())
	if err != nil {
		return err
	}
	defer st.Close()

	srv, err := newServer(st, globals, &c.App)
	if err != nil {
		return err
	}

	url := "http://" + browseAddr(c.App.Listen) + "/"
	return launcher.New(log).Run(ctx, url, func(ctx context.Context) error {
		return runHTTPServer(ctx, log, srv)
	})
}

// browseAddr turns a wildcard listen address into one a browser can open.
func browseAddr(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return listen
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, port)
}
