package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/complyx/complyx/internal/api"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the ComplyX backend",
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

		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if email == "" {
			email = prompt("Email: ")
		}
		if password == "" {
			password = prompt("Password: ")
		}

		client := newClient(cfg, st)
		result, err := client.Login(cmd.Context(), email, password)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		if err := st.Credentials().SaveUser(cmd.Context(), result.User); err != nil {
			return fmt.Errorf("persist user: %w", err)
		}

		fmt.Printf("Signed in as %s (%s)\n", result.User.Name, result.User.Email)
		if !result.User.EmailVerified {
			fmt.Println("Your email address is not verified yet — check your inbox.")
		}
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a ComplyX account",
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

		req := api.RegisterRequest{}
		req.Name, _ = cmd.Flags().GetString("name")
		req.Email, _ = cmd.Flags().GetString("email")
		req.Password, _ = cmd.Flags().GetString("password")
		req.Organization, _ = cmd.Flags().GetString("org")
		if req.Name == "" {
			req.Name = prompt("Name: ")
		}
		if req.Email == "" {
			req.Email = prompt("Email: ")
		}
		if req.Password == "" {
			req.Password = prompt("Password: ")
		}

		client := newClient(cfg, st)
		result, err := client.Register(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("register: %w", err)
		}
		if err := st.Credentials().SaveUser(cmd.Context(), result.User); err != nil {
			return fmt.Errorf("persist user: %w", err)
		}

		fmt.Printf("Account created for %s. A verification email is on its way.\n", result.User.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear stored credentials",
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

		client := newClient(cfg, st)
		if err := client.Logout(cmd.Context()); err != nil {
			// Local credentials are already cleared; the server session will
			// expire on its own.
			fmt.Fprintln(os.Stderr, "Backend logout failed:", err)
		}
		fmt.Println("Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		user, ok, err := st.Credentials().User(cmd.Context())
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Not signed in. Run `complyx login`.")
			return nil
		}

		fmt.Printf("%s <%s>\n", user.Name, user.Email)
		if user.Organization != "" {
			fmt.Println("Organization:", user.Organization)
		}
		fmt.Println("Role:", user.Role)
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "Account email")
	loginCmd.Flags().String("password", "", "Account password (prompted if omitted)")

	registerCmd.Flags().String("name", "", "Full name")
	registerCmd.Flags().String("email", "", "Account email")
	registerCmd.Flags().String("password", "", "Account password (prompted if omitted)")
	registerCmd.Flags().String("org", "", "Organization name")
}

func prompt(label string) string {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
