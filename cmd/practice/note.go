package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var noteTags []string

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage per-question notes",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var noteSetCmd = &cobra.Command{
	Use:   "set <question-id> <text>",
	Short: "Write or overwrite the note for a question",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			if !a.questions.Exists(args[0]) {
				return fmt.Errorf("question %q not found", args[0])
			}
			a.notes.Save(args[0], strings.Join(args[1:], " "), noteTags)
			fmt.Println("Saved.")
			return nil
		})
	},
}

var noteShowCmd = &cobra.Command{
	Use:   "show <question-id>",
	Short: "Show the note for a question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			n, ok := a.notes.Get(args[0])
			if !ok {
				return fmt.Errorf("no note for %q", args[0])
			}
			fmt.Println(n.Content)
			if len(n.Tags) > 0 {
				fmt.Println("Tags:", strings.Join(n.Tags, ", "))
			}
			fmt.Println("Updated:", n.UpdatedTime.Format(time.DateOnly))
			return nil
		})
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list [search]",
	Short: "List notes, optionally filtered by content",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			notes := a.notes.All()
			if len(args) > 0 {
				notes = a.notes.Search(strings.Join(args, " "))
			}
			if len(notes) == 0 {
				fmt.Println("No notes.")
				return nil
			}
			for _, n := range notes {
				fmt.Printf("%-20s %s\n", n.QuestionID, n.Content)
			}
			return nil
		})
	},
}

var noteRemoveCmd = &cobra.Command{
	Use:   "remove <question-id>",
	Short: "Delete the note for a question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			if !a.notes.Remove(args[0]) {
				return fmt.Errorf("no note for %q", args[0])
			}
			fmt.Println("Removed.")
			return nil
		})
	},
}

func init() {
	noteSetCmd.Flags().StringArrayVar(&noteTags, "tag", nil, "Tag for the note (repeatable)")
	noteCmd.AddCommand(noteSetCmd)
	noteCmd.AddCommand(noteShowCmd)
	noteCmd.AddCommand(noteListCmd)
	noteCmd.AddCommand(noteRemoveCmd)
	rootCmd.AddCommand(noteCmd)
}
