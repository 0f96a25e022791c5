package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	newTitle   string
	newContent string
	newStdin   bool
)

// newCmd creates a note through an editor session so the same title
// generation and save path the interactive flow uses applies here.
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a note",
	Long: `Create a note. Without --title the first line of the content
becomes the title; an entirely empty note gets a placeholder title.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		content := newContent
		if newStdin {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				fatal("Failed to read stdin", err)
			}
			content = string(data)
		}

		ctx := context.Background()
		app := openApp(ctx)
		defer app.Close()

		session := app.NewEditor()
		if newTitle != "" {
			session.SetTitle(newTitle)
		}
		if content != "" {
			session.SetContent(content)
		}

		if err := session.Close(ctx); err != nil {
			fatal("Failed to save the note", err)
		}
		if session.NoteID() == "" {
			fmt.Println("Nothing to save.")
			return
		}

		fmt.Printf("Created note %s (%s)\n", session.NoteID(), session.DisplayTitle())
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVarP(&newTitle, "title", "t", "", "Note title")
	newCmd.Flags().StringVarP(&newContent, "content", "c", "", "Note content")
	newCmd.Flags().BoolVar(&newStdin, "stdin", false, "Read the content from stdin")
}
