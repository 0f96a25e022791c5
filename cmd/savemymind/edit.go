package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TheReal-Flo/SaveMyMind/pkg/editor"
)

var (
	editTitle   string
	editContent string
	editAppend  string
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a note",
	Long: `Edit a note by id. --title and --content replace the fields;
--append adds a paragraph to the existing content. Clearing the title
with --title="" regenerates it from the content.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		defer app.Close()

		session, err := app.OpenEditor(args[0])
		if err != nil {
			if errors.Is(err, editor.ErrNoteNotFound) {
				fatal("No such note", fmt.Errorf("%s", args[0]))
			}
			fatal("Failed to open the note", err)
		}

		if cmd.Flags().Changed("title") {
			session.SetTitle(editTitle)
		}
		if cmd.Flags().Changed("content") {
			session.SetContent(editContent)
		}
		if editAppend != "" {
			session.SetContent(joinParagraph(session.Content(), editAppend))
		}

		if err := session.Close(ctx); err != nil {
			fatal("Failed to save the note", err)
		}
		fmt.Printf("Saved note %s (%s)\n", session.NoteID(), session.DisplayTitle())
	},
}

func joinParagraph(existing, extra string) string {
	if existing == "" {
		return extra
	}
	return existing + "\n\n" + extra
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVarP(&editTitle, "title", "t", "", "New title")
	editCmd.Flags().StringVarP(&editContent, "content", "c", "", "New content")
	editCmd.Flags().StringVarP(&editAppend, "append", "a", "", "Paragraph to append to the content")
}
