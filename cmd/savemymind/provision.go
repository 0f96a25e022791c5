package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TheReal-Flo/SaveMyMind/pkg/provision"
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Download and verify the voice transcription model",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		defer app.Close()

		gate := app.Provision()
		gate.Subscribe(func(p provision.Progress) {
			if p.Percent >= 0 {
				fmt.Printf("\rDownloading... %3d%%", p.Percent)
			} else {
				fmt.Printf("\rDownloading... %d bytes", p.Written)
			}
		})

		if err := gate.Ensure(ctx); err != nil {
			fmt.Println()
			status, reason := gate.Status()
			fatal(fmt.Sprintf("Provisioning ended in state %q", status), fmt.Errorf("%s", reason))
		}
		fmt.Println()

		status, _ := gate.Status()
		if status == provision.StatusAvailable {
			fmt.Println("Voice transcription model is ready.")
		}
	},
}

var retryCmd = &cobra.Command{
	Use:   "retry",
	Short: "Retry a failed model download",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		defer app.Close()

		if err := app.Provision().Retry(ctx); err != nil {
			fatal("Retry failed", err)
		}
		status, _ := app.Provision().Status()
		fmt.Printf("Provisioning state: %s\n", status)
	},
}

func init() {
	rootCmd.AddCommand(provisionCmd)
	provisionCmd.AddCommand(retryCmd)
}
