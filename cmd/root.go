package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "snapcircle",
	Short: "A CLI for the SnapCircle event photo-sharing service",
	Long: `SnapCircle is a CLI client for the SnapCircle backend. Create events,
share join codes with guests, upload photos, and run face processing so
guests can find the photos they appear in.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
