package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/complyx/complyx/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the client version and check backend compatibility",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("complyx", version.Current())

		cfg, err := resolveConfig(cmd)
		if err != nil {
			// No backend configured; the local version is still useful.
			return
		}
		client := newClient(cfg, nil)

		result, err := version.Check(cmd.Context(), client)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Backend version check failed:", err)
			return
		}
		if !result.Supported {
			fmt.Fprintf(os.Stderr, "This client is older than the backend minimum (%s) — please upgrade.\n", result.MinClient)
			return
		}
		if result.UpdateHint {
			fmt.Printf("A newer client is available: %s\n", result.Latest)
		}
	},
}
