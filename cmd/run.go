package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/complyx/complyx/internal/api"
	"github.com/complyx/complyx/internal/app"
	"github.com/complyx/complyx/internal/config"
	"github.com/complyx/complyx/internal/store"
	"github.com/complyx/complyx/internal/version"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Local store unavailable:", err)
		fmt.Fprintln(os.Stderr, "Sessions and credentials will not persist.")
		st = nil
	}
	if st != nil {
		defer st.Close()
	}

	client := newClient(cfg, st)

	opts := app.Options{
		Client:  client,
		Store:   st,
		Config:  cfg,
		Version: version.Current(),
	}

	if st != nil {
		if user, ok, err := st.Credentials().User(ctx); err == nil && ok {
			opts.User = &user
		}
		if v, ok, err := st.Preferences().Get(ctx, store.StandardPreferenceKey); err == nil && ok {
			opts.Standard = api.Standard(v)
		}
	}

	return app.Run(opts)
}

// resolveConfig builds the config from env, applying the --api-url flag on
// top, and validates it.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.FromEnv()
	if u, _ := cmd.Flags().GetString("api-url"); u != "" {
		cfg.APIBaseURL = u
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// newClient builds the API client, attaching the credential store when local
// persistence is available so the 401 refresh flow writes through it.
func newClient(cfg config.Config, st *store.Store) *api.Client {
	opts := []api.Option{}
	if st != nil {
		opts = append(opts, api.WithTokenStore(st.Credentials()))
	}
	return api.New(cfg.APIBaseURL, cfg.Timeout, opts...)
}
