package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteAll bool

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note, or the whole collection with --all",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		if deleteAll {
			app := openApp(ctx)
			defer app.Close()

			count := len(app.Store().Notes())
			if err := app.Store().DeleteAll(ctx); err != nil {
				fatal("Failed to delete notes", err)
			}
			fmt.Printf("Deleted %d note(s).\n", count)
			return
		}

		if len(args) == 0 {
			fmt.Println("Error: an id or --all is required")
			cmd.Usage()
			return
		}

		app := openApp(ctx)
		defer app.Close()

		// Delete is idempotent, so report what actually happened.
		_, existed := app.Store().GetByID(args[0])
		if err := app.Store().Delete(ctx, args[0]); err != nil {
			fatal("Failed to delete the note", err)
		}
		if existed {
			fmt.Printf("Deleted note %s.\n", args[0])
		} else {
			fmt.Printf("Note %s was already gone.\n", args[0])
		}
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVar(&deleteAll, "all", false, "Delete every note")
}
