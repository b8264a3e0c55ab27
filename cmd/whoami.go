package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, _, err := newClient()
		if err != nil {
			return err
		}
		user, err := requireUser(cmd.Context(), client)
		if err != nil {
			return err
		}

		fmt.Printf("%s <%s>\n", user.Name, user.Email)
		if user.HasSelfie() {
			fmt.Println("Selfie: set (face matching enabled)")
		} else {
			fmt.Println("Selfie: not set, run 'snapcircle selfie set' to enable face matching")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
