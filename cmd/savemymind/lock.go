package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TheReal-Flo/SaveMyMind/pkg/auth"
)

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Manage the app lock",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		defer app.Close()

		if app.Auth().Enabled(ctx) {
			fmt.Println("App lock is on.")
		} else {
			fmt.Println("App lock is off.")
		}
	},
}

var lockOnCmd = &cobra.Command{
	Use:   "on",
	Short: "Turn the app lock on (requires passing the challenge)",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		defer app.Close()

		if err := app.Auth().SetEnabled(ctx, true); err != nil {
			var cerr *auth.ChallengeError
			if errors.As(err, &cerr) {
				fatal("Could not enable the lock", errors.New(cerr.Reason.Message()))
			}
			fatal("Could not enable the lock", err)
		}
		fmt.Println("App lock is now on.")
	},
}

var lockOffCmd = &cobra.Command{
	Use:   "off",
	Short: "Turn the app lock off",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		defer app.Close()

		if err := app.Auth().SetEnabled(ctx, false); err != nil {
			fatal("Could not disable the lock", err)
		}
		fmt.Println("App lock is now off.")
	},
}

func init() {
	rootCmd.AddCommand(lockCmd)
	lockCmd.AddCommand(lockOnCmd)
	lockCmd.AddCommand(lockOffCmd)
}
