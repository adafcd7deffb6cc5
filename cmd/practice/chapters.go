package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lilulei/ruankao/internal/domain/chapter"
)

var (
	chapterLevel    string
	chapterExamType string
	chapterParent   string
	chapterAllScope bool
)

var chaptersCmd = &cobra.Command{
	Use:   "chapters",
	Short: "Show the knowledge chapters visible to the selected identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			var visible []chapter.KnowledgeChapter
			if chapterAllScope {
				visible = a.chapters.All()
			} else {
				visible = a.chapters.ByIdentity(
					a.identity.Level().DisplayName(),
					a.identity.Type().DisplayName())
			}
			if len(visible) == 0 {
				fmt.Println("No chapters.")
				return nil
			}
			for _, c := range visible {
				scope := "any identity"
				if c.Level != "" || c.ExamType != "" {
					scope = fmt.Sprintf("%s / %s", orDash(c.Level), orDash(c.ExamType))
				}
				fmt.Printf("%-20s %-35s [%s]  %d question(s)\n",
					c.ID, c.Name, scope, a.questions.CountByChapter(c.Name))
			}
			return nil
		})
	},
}

var chaptersAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a chapter",
	Long: `Add a chapter. Without --level/--type the chapter is visible to every
identity; with them it is scoped. --parent nests it under another chapter.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			name := args[0]
			if a.chapters.NameExists(name, chapterLevel, chapterExamType) {
				return fmt.Errorf("chapter %q already exists in that scope", name)
			}
			c := chapter.New(name, chapterLevel, chapterExamType)
			if chapterParent != "" {
				if !a.chapters.Exists(chapterParent) {
					return fmt.Errorf("parent chapter %q not found", chapterParent)
				}
				c.ParentID = chapterParent
			}
			a.chapters.Add(c)
			fmt.Printf("Added %s (%s)\n", c.Name, c.ID)
			return nil
		})
	},
}

var chaptersRemoveCmd = &cobra.Command{
	Use:   "remove <chapter-id>",
	Short: "Remove a chapter",
	Long: `Remove a chapter. A chapter still referenced by questions cannot be
removed; reassign or delete those questions first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			if !a.chapters.Remove(args[0], a.questions) {
				if n := a.chapters.BlockingQuestions(args[0], a.questions); n > 0 {
					return fmt.Errorf("chapter has %d question(s); reassign them first", n)
				}
				return fmt.Errorf("chapter %q not found", args[0])
			}
			fmt.Println("Removed", args[0])
			return nil
		})
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	chaptersCmd.Flags().BoolVar(&chapterAllScope, "all", false, "Show chapters of every identity")
	chaptersAddCmd.Flags().StringVar(&chapterLevel, "level", "", "Scope to a level display name")
	chaptersAddCmd.Flags().StringVar(&chapterExamType, "type", "", "Scope to an exam title display name")
	chaptersAddCmd.Flags().StringVar(&chapterParent, "parent", "", "Parent chapter id")
	chaptersCmd.AddCommand(chaptersAddCmd)
	chaptersCmd.AddCommand(chaptersRemoveCmd)
	rootCmd.AddCommand(chaptersCmd)
}
