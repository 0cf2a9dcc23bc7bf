package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/complyx/complyx/internal/api"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative operations (admin role required)",
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, st, err := adminClient(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")
		users, err := client.AdminUsers(cmd.Context(), page, perPage)
		if err != nil {
			return err
		}

		for _, u := range users.Users {
			fmt.Printf("%-36s  %-8s  %s <%s>\n", u.ID, u.Role, u.Name, u.Email)
		}
		fmt.Printf("Page %d, %d total\n", users.Page, users.Total)
		return nil
	},
}

var adminCreateUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Provision an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, st, err := adminClient(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		req := api.RegisterRequest{
			Name:         mustString(cmd, "name"),
			Email:        mustString(cmd, "email"),
			Password:     mustString(cmd, "password"),
			Organization: mustString(cmd, "org"),
		}
		if req.Email == "" || req.Password == "" {
			return fmt.Errorf("--email and --password are required")
		}

		user, err := client.AdminCreateUser(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Println("Created user", user.ID)
		return nil
	},
}

var adminUpdateUserCmd = &cobra.Command{
	Use:   "update-user <id>",
	Short: "Update a user's name, role or organization",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, st, err := adminClient(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		update := api.AdminUserUpdate{
			Name:         mustString(cmd, "name"),
			Role:         mustString(cmd, "role"),
			Organization: mustString(cmd, "org"),
		}
		user, err := client.AdminUpdateUser(cmd.Context(), args[0], update)
		if err != nil {
			return err
		}
		fmt.Printf("Updated %s <%s> role=%s\n", user.Name, user.Email, user.Role)
		return nil
	},
}

var adminDeleteUserCmd = &cobra.Command{
	Use:   "delete-user <id>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("refusing to delete without --yes")
		}
		client, st, err := adminClient(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := client.AdminDeleteUser(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted", args[0])
		return nil
	},
}

var adminStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show platform activity counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, st, err := adminClient(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := client.AdminStats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println("Users:              ", stats.TotalUsers)
		fmt.Println("Active assessments: ", stats.ActiveAssessments)
		fmt.Println("Completed today:    ", stats.CompletedToday)
		fmt.Println("Organizations:      ", stats.Organizations)
		return nil
	},
}

var adminAnalyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Dump usage analytics as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, st, err := adminClient(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		analytics, err := client.AdminAnalytics(cmd.Context())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(analytics)
	},
}

var adminAuditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show recent audit log entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, st, err := adminClient(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		entries, err := client.AdminAuditLogs(cmd.Context(), limit)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%s  %-24s %-20s %s\n",
				e.Timestamp.Format("2006-01-02 15:04:05"), e.Actor, e.Action, e.Target)
		}
		return nil
	},
}

var adminOrgsCmd = &cobra.Command{
	Use:   "orgs",
	Short: "List organizations",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, st, err := adminClient(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		orgs, err := client.AdminOrganizations(cmd.Context())
		if err != nil {
			return err
		}
		for _, o := range orgs {
			fmt.Printf("%-36s  %4d users  %s\n", o.ID, o.UserCount, o.Name)
		}
		return nil
	},
}

func init() {
	adminUsersCmd.Flags().Int("page", 1, "Page number")
	adminUsersCmd.Flags().Int("per-page", 50, "Users per page")

	adminCreateUserCmd.Flags().String("name", "", "Full name")
	adminCreateUserCmd.Flags().String("email", "", "Account email")
	adminCreateUserCmd.Flags().String("password", "", "Initial password")
	adminCreateUserCmd.Flags().String("org", "", "Organization name")

	adminUpdateUserCmd.Flags().String("name", "", "New name")
	adminUpdateUserCmd.Flags().String("role", "", "New role")
	adminUpdateUserCmd.Flags().String("org", "", "New organization")

	adminDeleteUserCmd.Flags().Bool("yes", false, "Confirm deletion")

	adminAuditCmd.Flags().Int("limit", 50, "Maximum entries")

	adminCmd.AddCommand(adminUsersCmd)
	adminCmd.AddCommand(adminCreateUserCmd)
	adminCmd.AddCommand(adminUpdateUserCmd)
	adminCmd.AddCommand(adminDeleteUserCmd)
	adminCmd.AddCommand(adminStatsCmd)
	adminCmd.AddCommand(adminAnalyticsCmd)
	adminCmd.AddCommand(adminAuditCmd)
	adminCmd.AddCommand(adminOrgsCmd)
}

// adminClient builds an authenticated client; the caller closes the store.
func adminClient(cmd *cobra.Command) (*api.Client, interface{ Close() error }, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	st, err := openStore(cmd)
	if err != nil {
		return nil, nil, err
	}
	return newClient(cfg, st), st, nil
}
