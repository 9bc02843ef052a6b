package commands

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/bl815v/Tiendo/internal/logutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseFlagsValidate(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"sqlite://tiendo.db", false},
		{"postgres://u:p@localhost/tiendo", false},
		{"tiendo.db", false},
		{"mysql://u:p@localhost/tiendo", true},
		{"", true},
	}
	for _, tt := range tests {
		d := DatabaseFlags{URL: tt.url}
		if tt.wantErr {
			assert.Error(t, d.Validate(), tt.url)
		} else {
			assert.NoError(t, d.Validate(), tt.url)
		}
	}
}

func TestAppFlagsValidate(t *testing.T) {
	ok := AppFlags{Listen: "127.0.0.1:8000", SessionSweepInterval: 5 * time.Minute}
	assert.NoError(t, ok.Validate())

	bad := AppFlags{Listen: "localhost"}
	assert.Error(t, bad.Validate())

	negative := AppFlags{Listen: ":8000", SessionSweepInterval: -time.Second}
	assert.Error(t, negative.Validate())
}

func TestStoreConfig(t *testing.T) {
	a := AppFlags{JWTSecret: "k", SessionSweepInterval: time.Minute}
	cfg := a.storeConfig()
	assert.Equal(t, "k", cfg.JWTSecret)
	assert.Equal(t, time.Minute, cfg.SessionSweepInterval)

	// zero disables the sweep
	a.SessionSweepInterval = 0
	assert.Negative(t, a.storeConfig().SessionSweepInterval)
}

func TestSeedCmdValidate(t *testing.T) {
	c := SeedCmd{Categories: 5, Products: 40, Customers: 20, Orders: 30}
	assert.NoError(t, c.Validate())

	c.Categories = 0
	assert.Error(t, c.Validate())

	c = SeedCmd{Categories: 1, Products: 0, Customers: 1, Orders: 3}
	assert.Error(t, c.Validate())
}

func TestBrowseAddr(t *testing.T) {
	assert.Equal(t, "127.0.0.1:8000", browseAddr("127.0.0.1:8000"))
	assert.Equal(t, "127.0.0.1:8000", browseAddr("0.0.0.0:8000"))
	assert.Equal(t, "127.0.0.1:9000", browseAddr(":9000"))
	assert.Equal(t, "shop.local:80", browseAddr("shop.local:80"))
}

func TestConfigureHTTPServer(t *testing.T) {
	srv := configureHTTPServer(":8000", http.NotFoundHandler())
	assert.Equal(t, 15*time.Second, srv.ReadTimeout)
	assert.Equal(t, 30*time.Second, srv.WriteTimeout)
}

func TestRunHTTPServer_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := configureHTTPServer("127.0.0.1:0", http.NotFoundHandler())

	done := make(chan error, 1)
	go func() { done <- runHTTPServer(ctx, logutil.Discard(), srv) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
}
