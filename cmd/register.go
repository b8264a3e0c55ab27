package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a SnapCircle account",
	Long: `Create a SnapCircle account and log in. Attach a selfie with --selfie
to enable face matching right away; you can also add one later with
'snapcircle selfie set'.

Example:
  snapcircle register --name "Anna" --email anna@example.com --selfie ./me.jpg`,
	RunE: runRegister,
}

func init() {
	rootCmd.AddCommand(registerCmd)

	registerCmd.Flags().String("name", "", "Your name (required)")
	registerCmd.Flags().String("email", "", "Your email (required)")
	registerCmd.Flags().String("selfie", "", "Path to a selfie image")
	registerCmd.MarkFlagRequired("name")
	registerCmd.MarkFlagRequired("email")
}

func runRegister(cmd *cobra.Command, args []string) error {
	name := mustGetString(cmd, "name")
	email := mustGetString(cmd, "email")
	selfie := mustGetString(cmd, "selfie")

	fmt.Print("Choose a password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("could not read password: %w", err)
	}

	client, store, _, err := newClient()
	if err != nil {
		return err
	}

	user, err := client.Register(cmd.Context(), name, email, string(password))
	if err != nil {
		return err
	}
	fmt.Printf("Account created for %s <%s>\n", user.Name, user.Email)

	token, err := client.Login(cmd.Context(), email, string(password))
	if err != nil {
		return fmt.Errorf("account created but login failed, run 'snapcircle login': %w", err)
	}
	if err := store.Save(token); err != nil {
		return fmt.Errorf("logged in but could not persist token: %w", err)
	}

	if selfie != "" {
		if err := client.UploadProfileSelfie(cmd.Context(), selfie); err != nil {
			return fmt.Errorf("registered and logged in, but selfie upload failed: %w", err)
		}
		fmt.Println("Selfie uploaded, face matching enabled")
	}
	return nil
}
