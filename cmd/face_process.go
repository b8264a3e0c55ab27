package cmd

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/snapcircle/snapcircle/internal/event"
	"github.com/spf13/cobra"
)

var faceCmd = &cobra.Command{
	Use:   "face",
	Short: "Face processing",
}

var faceProcessCmd = &cobra.Command{
	Use:   "process <code>",
	Short: "Run face detection and matching on event photos",
	Long: `Run the backend face-processing batch over an event's photos.
Faces are detected in every photo and matched against the selfies of
registered guests. By default all photos of the event are processed; use
--photos to process a subset.

The backend processes the batch as one blocking operation, so the bar jumps
from zero to done when it finishes.

Example:
  snapcircle face process ABC123
  snapcircle face process ABC123 --photos 10,11,12`,
	Args: cobra.ExactArgs(1),
	RunE: runFaceProcess,
}

func init() {
	rootCmd.AddCommand(faceCmd)
	faceCmd.AddCommand(faceProcessCmd)

	faceProcessCmd.Flags().IntSlice("photos", nil, "Photo IDs to process (default: all)")
}

func runFaceProcess(cmd *cobra.Command, args []string) error {
	client, _, _, err := newClient()
	if err != nil {
		return err
	}
	if _, err := requireUser(cmd.Context(), client); err != nil {
		return err
	}

	photoIDs := mustGetIntSlice(cmd, "photos")
	if len(photoIDs) == 0 {
		photos, err := client.EventPhotos(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, photo := range photos {
			photoIDs = append(photoIDs, photo.ID)
		}
	}

	tracker := event.NewTracker(client)
	if _, err := tracker.Start(cmd.Context(), photoIDs); err != nil {
		return err
	}

	bar := progressbar.Default(int64(len(photoIDs)), "processing faces")
	status := tracker.Wait()
	bar.Set(status.Current)
	bar.Finish()
	fmt.Println()

	if status.State == event.JobFailed {
		return fmt.Errorf("face processing failed: %s", status.Error)
	}

	result := status.Result
	fmt.Println(result.Message)
	fmt.Printf("  Photos processed: %d\n", result.ProcessedPhotos)
	fmt.Printf("  Faces detected:   %d\n", result.TotalFacesDetected)
	fmt.Printf("  Faces matched:    %d\n", result.TotalFacesMatched)
	return nil
}
