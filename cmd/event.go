package cmd

import (
	"fmt"

	"github.com/snapcircle/snapcircle/internal/snapcircle"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Manage events",
}

var eventCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new event",
	Long: `Create a new event owned by the logged-in user. The backend assigns
a six-character join code to share with guests.

Example:
  snapcircle event create --name "Anna's Wedding" --date 2026-06-20`,
	RunE: runEventCreate,
}

var eventListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your events",
	Long:  `List events you own and events you joined as a guest.`,
	RunE:  runEventList,
}

func init() {
	rootCmd.AddCommand(eventCmd)
	eventCmd.AddCommand(eventCreateCmd)
	eventCmd.AddCommand(eventListCmd)

	eventCreateCmd.Flags().String("name", "", "Event name (required)")
	eventCreateCmd.Flags().String("date", "", "Event date, YYYY-MM-DD (required)")
	eventCreateCmd.Flags().String("description", "", "Event description")
	eventCreateCmd.MarkFlagRequired("name")
	eventCreateCmd.MarkFlagRequired("date")
}

func runEventCreate(cmd *cobra.Command, args []string) error {
	client, _, _, err := newClient()
	if err != nil {
		return err
	}
	if _, err := requireUser(cmd.Context(), client); err != nil {
		return err
	}

	ev, err := client.CreateEvent(cmd.Context(), snapcircle.EventCreate{
		Name:        mustGetString(cmd, "name"),
		Date:        mustGetString(cmd, "date"),
		Description: mustGetString(cmd, "description"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created event %q\n", ev.Name)
	fmt.Printf("Join code: %s\n", ev.Code)
	fmt.Println("Share the code with guests, or run 'snapcircle event qr' for an invite QR code")
	return nil
}

func runEventList(cmd *cobra.Command, args []string) error {
	client, _, _, err := newClient()
	if err != nil {
		return err
	}
	if _, err := requireUser(cmd.Context(), client); err != nil {
		return err
	}

	owned, err := client.OwnedEvents(cmd.Context())
	if err != nil {
		return err
	}
	registered, err := client.RegisteredEvents(cmd.Context())
	if err != nil {
		return err
	}

	if len(owned) > 0 {
		fmt.Println("Owned events:")
		for _, ev := range owned {
			fmt.Printf("  %s  %-30s %s  (%d guests, %d photos)\n", ev.Code, ev.Name, ev.Date, ev.GuestCount, ev.PhotoCount)
		}
	}
	if len(registered) > 0 {
		fmt.Println("Joined events:")
		for _, ev := range registered {
			fmt.Printf("  %s  %-30s %s\n", ev.Code, ev.Name, ev.Date)
		}
	}
	if len(owned) == 0 && len(registered) == 0 {
		fmt.Println("No events yet. Create one with 'snapcircle event create' or join with 'snapcircle join <code>'")
	}
	return nil
}
