package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lilulei/ruankao/internal/domain/wrongbook"
)

var (
	wrongAll      bool
	wrongMastered bool
)

var wrongCmd = &cobra.Command{
	Use:   "wrong",
	Short: "Show the wrong-question book",
	Long: `Show wrong questions of the selected identity. By default only the
unmastered ones; a question counts as mastered after ` + fmt.Sprint(wrongbook.MasteryThreshold) + ` consecutive
correct answers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			entries := a.wrongBook.ForIdentity(a.identity.Identity())
			shown := 0
			for _, info := range entries {
				if !wrongAll {
					if wrongMastered != info.Mastered {
						continue
					}
				}
				shown++
				title := "(question no longer in the bank)"
				if q, ok := a.questions.ByID(info.QuestionID); ok {
					title = q.Title
				}
				state := fmt.Sprintf("%d/%d correct", info.ConsecutiveCorrect, wrongbook.MasteryThreshold)
				if info.Mastered {
					state = "mastered"
				}
				fmt.Printf("%-20s x%-3d %-12s last missed %s\n  %s\n",
					info.QuestionID, info.ErrorCount, state,
					info.LastErrorTime.Format(time.DateOnly), title)
			}
			if shown == 0 {
				fmt.Println("Nothing here.")
			}
			return nil
		})
	},
}

var wrongRemoveCmd = &cobra.Command{
	Use:   "remove <question-id>",
	Short: "Remove a question from the wrong book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			a.wrongBook.Remove(args[0])
			fmt.Println("Removed", args[0])
			return nil
		})
	},
}

var wrongClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the wrong book",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			a.wrongBook.ClearAll()
			fmt.Println("Wrong book cleared.")
			return nil
		})
	},
}

func init() {
	wrongCmd.Flags().BoolVar(&wrongAll, "all", false, "Include mastered questions")
	wrongCmd.Flags().BoolVar(&wrongMastered, "mastered", false, "Show only mastered questions")
	wrongCmd.AddCommand(wrongRemoveCmd)
	wrongCmd.AddCommand(wrongClearCmd)
	rootCmd.AddCommand(wrongCmd)
}
