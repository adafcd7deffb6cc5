package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

var statsDays int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics for the selected identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			s := a.stats.ForIdentity(a.identity.Identity())

			fmt.Printf("%s / %s\n", s.ExamLevel.DisplayName(), s.ExamType.DisplayName())
			fmt.Println("----------------------------------------")
			fmt.Printf("Practices:   %d\n", s.TotalPractices)
			fmt.Printf("Questions:   %d (%d correct, %.1f%%)\n",
				s.TotalQuestions, s.CorrectAnswers, s.Accuracy()*100)
			fmt.Printf("Study time:  %d min\n", s.StudyTimeMinutes)
			fmt.Printf("Streak:      %d day(s)\n", s.DailyStreak)
			if !s.LastStudyDate.IsZero() {
				fmt.Printf("Last study:  %s\n", s.LastStudyDate.Format(time.DateOnly))
			}

			if len(s.CategoryStats) > 0 {
				fmt.Println("\nCategories:")
				names := make([]string, 0, len(s.CategoryStats))
				for name := range s.CategoryStats {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					cat := s.CategoryStats[name]
					mark := " "
					if cat.Mastered {
						mark = "*"
					}
					fmt.Printf("  %s %-30s %d/%d correct\n",
						mark, name, cat.CorrectAnswers, cat.TotalQuestions)
				}
			}

			var unlocked []string
			for name, ok := range s.Achievements {
				if ok {
					unlocked = append(unlocked, name)
				}
			}
			if len(unlocked) > 0 {
				sort.Strings(unlocked)
				fmt.Println("\nAchievements:")
				for _, name := range unlocked {
					fmt.Printf("  %s\n", name)
				}
			}
			return nil
		})
	},
}

var statsDailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Show per-day practice records",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			records := a.stats.DailyRecords(a.identity.Identity())
			if len(records) == 0 {
				fmt.Println("No practice recorded yet.")
				return nil
			}
			dates := make([]string, 0, len(records))
			for d := range records {
				dates = append(dates, d)
			}
			sort.Sort(sort.Reverse(sort.StringSlice(dates)))
			if statsDays > 0 && len(dates) > statsDays {
				dates = dates[:statsDays]
			}
			for _, d := range dates {
				rec := records[d]
				fmt.Printf("%s  %d session(s), %d question(s), %d correct, %d min\n",
					d, rec.Practices, rec.QuestionsAnswered, rec.CorrectlyAnswered, rec.TimeSpentMinutes)
			}
			return nil
		})
	},
}

var statsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Reset statistics for the selected identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			a.stats.ClearAll(a.identity.Identity())
			fmt.Println("Statistics cleared.")
			return nil
		})
	},
}

func init() {
	statsDailyCmd.Flags().IntVar(&statsDays, "days", 14, "Days to show (0 = all)")
	statsCmd.AddCommand(statsDailyCmd)
	statsCmd.AddCommand(statsClearCmd)
	rootCmd.AddCommand(statsCmd)
}
