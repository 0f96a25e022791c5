package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/TheReal-Flo/SaveMyMind/pkg/core"
)

var (
	listJSON   bool
	searchTerm string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes grouped by when they were last edited",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		defer app.Close()

		view := app.Store().Categorized(searchTerm)

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(view); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		if view.Total() == 0 {
			if searchTerm != "" {
				fmt.Printf("No notes match %q.\n", searchTerm)
			} else {
				fmt.Println("No notes yet. Create one with 'savemymind new'.")
			}
			return
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleRounded)
		t.Style().Options.SeparateRows = false
		t.AppendHeader(table.Row{
			text.FgGreen.Sprintf("Section"),
			text.FgGreen.Sprintf("ID"),
			text.FgGreen.Sprintf("Title"),
			text.FgGreen.Sprintf("Edited"),
		})

		for _, category := range core.Categories {
			notes := view[category]
			for i, n := range notes {
				section := ""
				if i == 0 {
					section = string(category)
				}
				t.AppendRow(table.Row{
					section,
					n.ID,
					n.Title,
					n.UpdatedAt.Format("2006-01-02 15:04"),
				})
			}
			if len(notes) > 0 {
				t.AppendSeparator()
			}
		}

		t.Render()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVarP(&searchTerm, "search", "s", "", "Filter by a case-insensitive substring of title or content")
}
