package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dietpix",
	Short: "dietpix serves the personalized diet journey",
	Long:  "dietpix is the backend-for-frontend of the diet plan web app: sessions, the form/loading/preview journey, PIX checkout and PDF export.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
