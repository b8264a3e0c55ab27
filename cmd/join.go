package cmd

import (
	"fmt"
	"os"

	"github.com/snapcircle/snapcircle/internal/event"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var joinCmd = &cobra.Command{
	Use:   "join <code>",
	Short: "Join an event by its code",
	Long: `Join an event using the code shared by its owner.

Logged-in users join directly. New guests can create an account on the spot
with --register; a selfie is required so face matching can find your photos.

Example:
  snapcircle join ABC123
  snapcircle join ABC123 --register --name "Anna" --email anna@example.com --selfie ./me.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runJoin,
}

func init() {
	rootCmd.AddCommand(joinCmd)

	joinCmd.Flags().Bool("register", false, "Create a new account while joining")
	joinCmd.Flags().String("name", "", "Your name (with --register)")
	joinCmd.Flags().String("email", "", "Your email (with --register)")
	joinCmd.Flags().String("selfie", "", "Path to a selfie image (with --register)")
}

func runJoin(cmd *cobra.Command, args []string) error {
	client, store, _, err := newClient()
	if err != nil {
		return err
	}

	o := event.NewOrchestrator(client, args[0])
	ev, err := o.Lookup(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s)\n", ev.Name, ev.Date)

	if o.State() == event.JoinAwaitingAuth {
		if !mustGetBool(cmd, "register") {
			return fmt.Errorf("not logged in: run 'snapcircle login' first, or join with --register")
		}
		if err := registerAndJoin(cmd, o); err != nil {
			return err
		}
		// Persist the token from the post-registration auto-login.
		if client.Authenticated() {
			if err := store.Save(client.Token()); err != nil {
				return fmt.Errorf("joined but could not persist token: %w", err)
			}
		}
	}

	fmt.Println(o.Message())
	return nil
}

func registerAndJoin(cmd *cobra.Command, o *event.Orchestrator) error {
	form := event.RegistrationForm{
		Name:       mustGetString(cmd, "name"),
		Email:      mustGetString(cmd, "email"),
		SelfiePath: mustGetString(cmd, "selfie"),
	}
	if form.Name == "" || form.Email == "" {
		return fmt.Errorf("--register needs --name and --email")
	}

	fmt.Print("Choose a password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("could not read password: %w", err)
	}
	form.Password = string(password)

	return o.Register(cmd.Context(), form)
}
