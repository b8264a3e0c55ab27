package cmd

import (
	"fmt"

	"github.com/snapcircle/snapcircle/internal/event"
	"github.com/spf13/cobra"
)

var eventDeleteCmd = &cobra.Command{
	Use:   "delete <code>",
	Short: "Delete an event you own",
	Long: `Delete an event you own. The backend removes all photos and guest
registrations with it; this cannot be undone.`,
	Args: cobra.ExactArgs(1),
	RunE: runEventDelete,
}

var eventLeaveCmd = &cobra.Command{
	Use:   "leave <code>",
	Short: "Leave an event you joined",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventLeave,
}

func init() {
	eventCmd.AddCommand(eventDeleteCmd)
	eventCmd.AddCommand(eventLeaveCmd)

	eventDeleteCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
}

func runEventDelete(cmd *cobra.Command, args []string) error {
	client, _, cfg, err := newClient()
	if err != nil {
		return err
	}
	user, err := requireUser(cmd.Context(), client)
	if err != nil {
		return err
	}

	c := event.NewController(client, args[0], user, uploadLimits(cfg))
	v, err := c.Load(cmd.Context())
	if err != nil {
		return err
	}

	if !mustGetBool(cmd, "yes") {
		fmt.Printf("This deletes %q with %d photos and %d guests. Re-run with --yes to confirm.\n",
			v.Event.Name, len(v.Photos), len(v.Guests))
		return nil
	}

	if err := c.DeleteEvent(cmd.Context()); err != nil {
		return err
	}
	fmt.Printf("Deleted event %q\n", v.Event.Name)
	return nil
}

func runEventLeave(cmd *cobra.Command, args []string) error {
	client, _, cfg, err := newClient()
	if err != nil {
		return err
	}
	user, err := requireUser(cmd.Context(), client)
	if err != nil {
		return err
	}

	c := event.NewController(client, args[0], user, uploadLimits(cfg))
	v, err := c.Load(cmd.Context())
	if err != nil {
		return err
	}
	if err := c.Leave(cmd.Context()); err != nil {
		return err
	}
	fmt.Printf("Left event %q\n", v.Event.Name)
	return nil
}
