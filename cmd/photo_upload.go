package cmd

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/snapcircle/snapcircle/internal/upload"
	"github.com/spf13/cobra"
)

var photoUploadCmd = &cobra.Command{
	Use:   "upload <code> <file> [file...]",
	Short: "Upload photos to an event",
	Long: `Upload photos to an event you own or joined.

The whole batch is validated before anything is sent: every file must be a
decodable image within the size limit, and the batch must fit the batch cap.
One bad file rejects the entire batch.

Example:
  snapcircle photo upload ABC123 ./dance.jpg ./cake.jpg`,
	Args: cobra.MinimumNArgs(2),
	RunE: runPhotoUpload,
}

func init() {
	photoCmd.AddCommand(photoUploadCmd)
}

func runPhotoUpload(cmd *cobra.Command, args []string) error {
	code, files := args[0], args[1:]

	client, _, cfg, err := newClient()
	if err != nil {
		return err
	}
	if _, err := requireUser(cmd.Context(), client); err != nil {
		return err
	}

	if err := upload.ValidateBatch(files, uploadLimits(cfg)); err != nil {
		if verr, ok := upload.AsValidationError(err); ok {
			return fmt.Errorf("batch rejected: %s", verr.Message)
		}
		return err
	}

	bar := progressbar.Default(int64(len(files)), "uploading")
	uploaded := 0
	for _, file := range files {
		if _, err := client.UploadEventPhotos(cmd.Context(), code, []string{file}); err != nil {
			fmt.Println()
			return fmt.Errorf("uploaded %d of %d photos: %w", uploaded, len(files), err)
		}
		uploaded++
		bar.Add(1)
	}
	bar.Finish()

	fmt.Printf("Uploaded %d photos to %s\n", uploaded, code)
	return nil
}
