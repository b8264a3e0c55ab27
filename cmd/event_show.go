package cmd

import (
	"fmt"

	"github.com/snapcircle/snapcircle/internal/event"
	"github.com/spf13/cobra"
)

var eventShowCmd = &cobra.Command{
	Use:   "show <code>",
	Short: "Show an event",
	Long: `Show an event scoped to your access level. Owners see photos, the
guest list, and the invite QR payload; guests see photos plus the ones they
were face-matched in; everyone else sees the public summary.`,
	Args: cobra.ExactArgs(1),
	RunE: runEventShow,
}

var eventGuestsCmd = &cobra.Command{
	Use:   "guests <code>",
	Short: "List the guests of an event you own",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventGuests,
}

var eventQRCmd = &cobra.Command{
	Use:   "qr <code>",
	Short: "Print the invite registration URL and QR payload",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventQR,
}

func init() {
	eventCmd.AddCommand(eventShowCmd)
	eventCmd.AddCommand(eventGuestsCmd)
	eventCmd.AddCommand(eventQRCmd)
}

func runEventShow(cmd *cobra.Command, args []string) error {
	client, _, cfg, err := newClient()
	if err != nil {
		return err
	}

	user, _ := client.Me(cmd.Context())
	c := event.NewController(client, args[0], user, uploadLimits(cfg))
	v, err := c.Load(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", v.Event.Name, v.Event.Code)
	if v.Event.Date != "" {
		fmt.Printf("Date: %s\n", v.Event.Date)
	}
	if v.Event.Description != "" {
		fmt.Printf("%s\n", v.Event.Description)
	}
	fmt.Printf("Access: %s\n", v.Access)

	switch v.Access {
	case event.Owner:
		fmt.Printf("Guests: %d, photos: %d\n", len(v.Guests), len(v.Photos))
		if v.QR != nil {
			fmt.Printf("Invite URL: %s\n", v.QR.RegistrationURL)
		}
	case event.RegisteredGuest:
		fmt.Printf("Photos: %d\n", len(v.Photos))
		if len(v.MyPhotos) > 0 {
			fmt.Printf("You appear in %d photos, see 'snapcircle photo mine %s'\n", len(v.MyPhotos), v.Event.Code)
		}
	default:
		fmt.Println("You are not registered for this event. Join with 'snapcircle join " + v.Event.Code + "'")
	}
	return nil
}

func runEventGuests(cmd *cobra.Command, args []string) error {
	client, _, _, err := newClient()
	if err != nil {
		return err
	}
	if _, err := requireUser(cmd.Context(), client); err != nil {
		return err
	}

	guests, err := client.EventGuests(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(guests) == 0 {
		fmt.Println("No guests yet")
		return nil
	}
	for _, guest := range guests {
		selfie := "no selfie"
		if guest.HasSelfie() {
			selfie = "selfie set"
		}
		fmt.Printf("  %-30s %-30s %s\n", guest.Name, guest.Email, selfie)
	}
	return nil
}

func runEventQR(cmd *cobra.Command, args []string) error {
	client, _, _, err := newClient()
	if err != nil {
		return err
	}
	if _, err := requireUser(cmd.Context(), client); err != nil {
		return err
	}

	qr, err := client.EventQRCode(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Registration URL: %s\n", qr.RegistrationURL)
	fmt.Printf("QR code (data URL):\n%s\n", qr.QRCode)
	return nil
}
