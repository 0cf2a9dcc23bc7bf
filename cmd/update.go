package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/complyx/complyx/internal/api"
	"github.com/complyx/complyx/internal/config"
	"github.com/complyx/complyx/internal/selfupdate"
	"github.com/complyx/complyx/internal/version"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update complyx to the latest version",
	RunE: func(cmd *cobra.Command, args []string) error {
		checker := selfupdate.NewChecker(selfupdate.WithTimeout(2 * time.Minute))

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		err := checker.Update(ctx, &selfupdate.UpdateInput{
			CurrentVersion: version.Current(),
			MinVersion:     backendMinVersion(ctx),
		}, func(p selfupdate.UpdateProgress) {
			fmt.Println(p.Message)
		})

		if err == nil {
			return nil
		}

		if errors.Is(err, selfupdate.ErrDevBuild) {
			fmt.Println("Cannot update a development build. Install a release build first.")
			return nil
		}
		if errors.Is(err, selfupdate.ErrAlreadyLatest) {
			fmt.Println("Already running the latest version.")
			return nil
		}
		if errors.Is(err, selfupdate.ErrBelowMinimum) {
			fmt.Println("The published release does not meet the backend's minimum client version; try again once a newer release is out.")
			return err
		}
		if os.IsPermission(err) {
			return fmt.Errorf("%w\n\nTry running: sudo complyx update", err)
		}

		return err
	},
}

// backendMinVersion asks the backend for its minimum supported client
// version. Best effort: with no reachable backend the update proceeds
// unchecked, so updating still works offline.
func backendMinVersion(ctx context.Context) string {
	cfg := config.FromEnv()
	if cfg.Validate() != nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	info, err := api.New(cfg.APIBaseURL, cfg.Timeout).Version(ctx)
	if err != nil {
		return ""
	}
	return info.MinClientVersion
}
