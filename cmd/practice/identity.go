package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lilulei/ruankao/internal/domain/exam"
)

var (
	identityType  string
	identityLevel string
)

var identityCmd = &cobra.Command{
	Use:   "identity",
	Short: "Show or change the selected exam identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			fmt.Printf("Level:           %s\n", a.identity.Level().DisplayName())
			fmt.Printf("Exam title:      %s\n", a.identity.Type().DisplayName())
			fmt.Printf("Default chapter: %s\n", a.identity.DefaultChapter())
			if !a.identity.Selected() {
				fmt.Println("(defaults; run 'practice identity set' to choose)")
			}
			return nil
		})
	},
}

var identitySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Select an exam title or level",
	Long: `Select an exam title with --type, or a level with --level.
Selecting a title derives its level; selecting a level picks the level's
default title.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if identityType == "" && identityLevel == "" {
			return fmt.Errorf("provide --type or --level")
		}
		return withApp(func(a *app) error {
			if identityType != "" {
				t, ok := exam.ParseType(identityType)
				if !ok {
					return fmt.Errorf("unknown exam title %q", identityType)
				}
				a.identity.SetType(t)
			} else {
				l, ok := exam.ParseLevel(identityLevel)
				if !ok {
					return fmt.Errorf("unknown level %q", identityLevel)
				}
				a.identity.SetLevel(l)
			}
			fmt.Printf("Selected %s / %s\n",
				a.identity.Level().DisplayName(), a.identity.Type().DisplayName())
			return nil
		})
	},
}

var identityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available levels and exam titles",
	Run: func(cmd *cobra.Command, args []string) {
		for _, l := range exam.Levels() {
			fmt.Printf("%s (%s)\n", l.DisplayName(), l)
			for _, t := range exam.TypesForLevel(l) {
				fmt.Printf("  %-45s %s\n", t.DisplayName(), t)
			}
		}
	},
}

func init() {
	identitySetCmd.Flags().StringVar(&identityType, "type", "", "Exam title (display or symbolic name)")
	identitySetCmd.Flags().StringVar(&identityLevel, "level", "", "Exam level (display or symbolic name)")
	identityCmd.AddCommand(identitySetCmd)
	identityCmd.AddCommand(identityListCmd)
	rootCmd.AddCommand(identityCmd)
}
