package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	savemymind "github.com/TheReal-Flo/SaveMyMind"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of savemymind",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("savemymind version %s\n", strings.TrimSpace(savemymind.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
