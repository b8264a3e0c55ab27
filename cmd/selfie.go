package cmd

import (
	"fmt"

	"github.com/snapcircle/snapcircle/internal/upload"
	"github.com/spf13/cobra"
)

var selfieCmd = &cobra.Command{
	Use:   "selfie",
	Short: "Manage your profile selfie",
	Long: `Manage the profile selfie used for face matching. The backend derives
a face embedding from it; without a selfie, 'snapcircle photo mine' has
nothing to match against.`,
}

var selfieSetCmd = &cobra.Command{
	Use:   "set <file>",
	Short: "Upload or replace your profile selfie",
	Args:  cobra.ExactArgs(1),
	RunE:  runSelfieSet,
}

var selfieRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove your profile selfie",
	RunE:  runSelfieRemove,
}

func init() {
	rootCmd.AddCommand(selfieCmd)
	selfieCmd.AddCommand(selfieSetCmd)
	selfieCmd.AddCommand(selfieRemoveCmd)
}

func runSelfieSet(cmd *cobra.Command, args []string) error {
	client, _, cfg, err := newClient()
	if err != nil {
		return err
	}
	if _, err := requireUser(cmd.Context(), client); err != nil {
		return err
	}

	if err := upload.ValidateBatch(args, uploadLimits(cfg)); err != nil {
		if verr, ok := upload.AsValidationError(err); ok {
			return fmt.Errorf("selfie rejected: %s", verr.Message)
		}
		return err
	}

	if err := client.UploadProfileSelfie(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Println("Selfie updated. Face matching will use it from the next processing run.")
	return nil
}

func runSelfieRemove(cmd *cobra.Command, args []string) error {
	client, _, _, err := newClient()
	if err != nil {
		return err
	}
	if _, err := requireUser(cmd.Context(), client); err != nil {
		return err
	}

	if err := client.DeleteProfileSelfie(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("Selfie removed")
	return nil
}
