package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/complyx/complyx/internal/api"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print the readiness dashboard for a standard",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		standard := api.Standard(strings.ToUpper(mustString(cmd, "standard")))
		if !standard.Valid() {
			return fmt.Errorf("unknown standard %q (want S1 or S2)", standard)
		}

		ctx := cmd.Context()
		client := newClient(cfg, st)

		userID := ""
		if user, ok, err := st.Credentials().User(ctx); err == nil && ok {
			userID = user.ID
		}

		score, err := client.ReadinessScore(ctx, userID, standard)
		if err != nil {
			return fmt.Errorf("readiness score: %w", err)
		}
		fmt.Printf("IFRS %s readiness: %.0f%%\n", standard, score.Overall)
		for _, c := range score.Categories {
			fmt.Printf("  %-32s %3.0f%%  (%d/%d)\n", c.Category, c.Percentage, c.Answered, c.Total)
		}

		assessmentID := mustString(cmd, "assessment")
		gaps, err := client.GapAnalysis(ctx, assessmentID, standard)
		if err != nil {
			return fmt.Errorf("gap analysis: %w", err)
		}
		fmt.Printf("\nGaps (%d):\n", len(gaps.Items))
		for _, g := range gaps.Items {
			fmt.Printf("  [%s] %s — %s\n", strings.ToUpper(g.Severity), g.Requirement, g.Category)
			if g.Recommendation != "" {
				fmt.Printf("      %s\n", g.Recommendation)
			}
		}

		matrix, err := client.ComplianceMatrix(ctx, assessmentID, standard)
		if err != nil {
			return fmt.Errorf("compliance matrix: %w", err)
		}
		fmt.Println("\nCompliance matrix:")
		for _, row := range matrix.Rows {
			fmt.Printf("  %-10s %3.0f%%  %s\n", row.Status, row.Coverage, row.Requirement)
		}
		return nil
	},
}

func init() {
	dashboardCmd.Flags().String("standard", "S1", "IFRS standard (S1 or S2)")
	dashboardCmd.Flags().String("assessment", "", "Assessment id (defaults to the latest)")
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}
