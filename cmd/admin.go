package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chitouru-maker/khoushou3/internal/admin"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage the admin override that unlocks all content",
}

var adminLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in as admin",
	Long:  "Checks the credentials against the configured username and bcrypt hash. The password is read from stdin when --password is not given.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("user")
		password, _ := cmd.Flags().GetString("password")
		if username == "" {
			username = cfg.Admin.Username
		}
		if password == "" {
			p, err := readLine(cmd)
			if err != nil {
				return err
			}
			password = p
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Admin.Login(cmd.Context(), username, password); err != nil {
			if errors.Is(err, admin.ErrNotConfigured) {
				return fmt.Errorf("%w: set admin.password_hash (see khoushou admin hash)", err)
			}
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged in as admin. All content is unlocked.")
		return nil
	},
}

var adminLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out of the admin session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Admin.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

var adminHashCmd = &cobra.Command{
	Use:         "hash [password]",
	Short:       "Print a bcrypt hash for admin.password_hash",
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{annotationStandalone: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var password string
		if len(args) == 1 {
			password = args[0]
		} else {
			p, err := readLine(cmd)
			if err != nil {
				return err
			}
			password = p
		}
		if password == "" {
			return errors.New("empty password")
		}
		hash, err := admin.HashPassword(password)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	adminLoginCmd.Flags().String("user", "", "Admin username (default from config)")
	adminLoginCmd.Flags().String("password", "", "Admin password (read from stdin if omitted)")

	adminCmd.AddCommand(adminLoginCmd)
	adminCmd.AddCommand(adminLogoutCmd)
	adminCmd.AddCommand(adminHashCmd)
}

func readLine(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
