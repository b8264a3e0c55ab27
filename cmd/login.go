package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in to SnapCircle",
	Long: `Log in to the SnapCircle backend with your email address.
The password is read from the terminal without echo. On success the bearer
token is persisted so later commands run authenticated.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	email := args[0]

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("could not read password: %w", err)
	}

	client, store, _, err := newClient()
	if err != nil {
		return err
	}

	token, err := client.Login(cmd.Context(), email, string(password))
	if err != nil {
		return err
	}
	if err := store.Save(token); err != nil {
		return fmt.Errorf("logged in but could not persist token: %w", err)
	}

	user, err := client.Me(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s <%s>\n", user.Name, user.Email)
	return nil
}
