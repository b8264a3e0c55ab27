package cmd

import (
	"fmt"

	"github.com/snapcircle/snapcircle/internal/event"
	"github.com/spf13/cobra"
)

var photoMineCmd = &cobra.Command{
	Use:   "mine <code>",
	Short: "List event photos you appear in",
	Long: `List the photos of an event where face processing matched you.
Requires a profile selfie, see 'snapcircle selfie set'.`,
	Args: cobra.ExactArgs(1),
	RunE: runPhotoMine,
}

func init() {
	photoCmd.AddCommand(photoMineCmd)
}

func runPhotoMine(cmd *cobra.Command, args []string) error {
	client, _, cfg, err := newClient()
	if err != nil {
		return err
	}
	user, err := requireUser(cmd.Context(), client)
	if err != nil {
		return err
	}
	if !user.HasSelfie() {
		return fmt.Errorf("no selfie on file, run 'snapcircle selfie set' first")
	}

	c := event.NewController(client, args[0], user, uploadLimits(cfg))
	v, err := c.Load(cmd.Context())
	if err != nil {
		return err
	}

	if len(v.MyPhotos) == 0 {
		fmt.Println("No matched photos. The owner may not have run face processing yet.")
		return nil
	}
	fmt.Printf("You appear in %d photos:\n", len(v.MyPhotos))
	for _, photo := range v.MyPhotos {
		fmt.Printf("  #%-6d %s\n", photo.ID, client.PhotoURL(photo.ImagePath))
	}
	return nil
}
