package cmd

import (
	"github.com/complyx/complyx/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "complyx",
	Short: "IFRS S1/S2 compliance-readiness assistant",
	Long:  "ComplyX — terminal client for assessing IFRS S1/S2 disclosure readiness through guided assessments, chat and dashboards.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("api-url", "", "Backend base URL (overrides COMPLYX_API_URL)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides COMPLYX_DB env var)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then COMPLYX_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
