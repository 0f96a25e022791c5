package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	lcadapter "github.com/TheReal-Flo/SaveMyMind/pkg/adapters/lifecycle"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream note mutation events until interrupted",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app := openApp(ctx)
		defer app.Close()

		events, cancel := app.Store().Subscribe()
		defer cancel()

		src := lcadapter.NewSource(events)
		if err := src.Start(ctx); err != nil {
			fatal("Failed to start the event stream", err)
		}

		fmt.Println("Watching for note changes (Ctrl+C to stop)...")
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-src.Events():
				if !ok {
					return
				}
				fmt.Println(e.String())
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
