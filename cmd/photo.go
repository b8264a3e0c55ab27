package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var photoCmd = &cobra.Command{
	Use:   "photo",
	Short: "Manage event photos",
}

var photoListCmd = &cobra.Command{
	Use:   "list <code>",
	Short: "List the photos of an event",
	Args:  cobra.ExactArgs(1),
	RunE:  runPhotoList,
}

var photoDeleteCmd = &cobra.Command{
	Use:   "delete <photo-id>",
	Short: "Delete a photo",
	Long: `Delete a photo by its ID. The backend permits deleting only photos
you uploaded, or any photo of an event you own.`,
	Args: cobra.ExactArgs(1),
	RunE: runPhotoDelete,
}

func init() {
	rootCmd.AddCommand(photoCmd)
	photoCmd.AddCommand(photoListCmd)
	photoCmd.AddCommand(photoDeleteCmd)
}

func runPhotoList(cmd *cobra.Command, args []string) error {
	client, _, _, err := newClient()
	if err != nil {
		return err
	}
	if _, err := requireUser(cmd.Context(), client); err != nil {
		return err
	}

	photos, err := client.EventPhotos(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(photos) == 0 {
		fmt.Println("No photos yet")
		return nil
	}
	for _, photo := range photos {
		fmt.Printf("  #%-6d uploaded by user %-4d %s\n", photo.ID, photo.UploadedBy, client.PhotoURL(photo.ImagePath))
	}
	return nil
}

func runPhotoDelete(cmd *cobra.Command, args []string) error {
	photoID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid photo ID %q", args[0])
	}

	client, _, _, err := newClient()
	if err != nil {
		return err
	}
	if _, err := requireUser(cmd.Context(), client); err != nil {
		return err
	}

	if err := client.DeletePhoto(cmd.Context(), photoID); err != nil {
		return err
	}
	fmt.Printf("Deleted photo #%d\n", photoID)
	return nil
}
