package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lilulei/ruankao/internal/domain/question"
	"github.com/lilulei/ruankao/internal/id"
)

var (
	addTitle       string
	addOptions     []string
	addAnswers     []string
	addExplanation string
	addDifficulty  string
	addChapter     string
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Manage the question bank of the selected identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			qs := a.questions.ByIdentity(a.identity.Level(), a.identity.Type())
			if len(qs) == 0 {
				fmt.Println("No questions for this identity.")
				return nil
			}
			for _, q := range qs {
				origin := " "
				if q.Origin == question.OriginCustom {
					origin = "+"
				}
				fmt.Printf("%s %-20s %-8s %-25s %s\n",
					origin, q.ID, q.Difficulty.DisplayName(), q.Chapter, q.Title)
			}
			fmt.Printf("%d question(s); + marks custom ones\n", len(qs))
			return nil
		})
	},
}

var questionsShowCmd = &cobra.Command{
	Use:   "show <question-id>",
	Short: "Show one question in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			q, ok := a.questions.ByID(args[0])
			if !ok {
				return fmt.Errorf("question %q not found", args[0])
			}
			fmt.Println(q.Title)
			for _, key := range sortedOptionKeys(q.Options) {
				fmt.Printf("  %s. %s\n", key, q.Options[key])
			}
			fmt.Printf("Answer: %s\n", strings.Join(q.CorrectAnswers, ", "))
			if q.Explanation != "" {
				fmt.Printf("Explanation: %s\n", q.Explanation)
			}
			fmt.Printf("%s | %s | %s | %s\n",
				q.Difficulty.DisplayName(), q.ExamType.DisplayName(),
				q.Chapter, q.ExamDate.Format(time.DateOnly))
			if n, ok := a.notes.Get(q.ID); ok {
				fmt.Printf("Note: %s\n", n.Content)
			}
			return nil
		})
	},
}

var questionsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a custom question to the bank",
	Example: `  practice questions add --title "TCP handshake steps?" \
    --option "A=Two" --option "B=Three" --option "C=Four" \
    --answer B --explanation "SYN, SYN-ACK, ACK." --chapter "Networking"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		options := make(map[string]string, len(addOptions))
		for _, raw := range addOptions {
			key, text, found := strings.Cut(raw, "=")
			if !found || key == "" {
				return fmt.Errorf("option %q must be label=text", raw)
			}
			options[strings.ToUpper(key)] = text
		}
		if addTitle == "" || len(options) < 2 || len(addAnswers) == 0 {
			return fmt.Errorf("a title, at least two options and one answer are required")
		}
		for i, ans := range addAnswers {
			addAnswers[i] = strings.ToUpper(ans)
			if _, ok := options[addAnswers[i]]; !ok {
				return fmt.Errorf("answer %q is not an option label", ans)
			}
		}
		difficulty, ok := question.ParseDifficulty(addDifficulty)
		if !ok {
			return fmt.Errorf("unknown difficulty %q", addDifficulty)
		}

		return withApp(func(a *app) error {
			q := question.Question{
				ID:             id.GenerateQuestionID(),
				Title:          addTitle,
				Options:        options,
				CorrectAnswers: addAnswers,
				Explanation:    addExplanation,
				Difficulty:     difficulty,
				Chapter:        addChapter,
				ExamDate:       time.Now(),
				ExamType:       a.identity.Type(),
				ExamLevel:      a.identity.Level(),
				Origin:         question.OriginCustom,
			}
			if q.Chapter == "" {
				q.Chapter = a.identity.DefaultChapter()
			}
			a.questions.Add(q)
			fmt.Println("Added", q.ID)
			return nil
		})
	},
}

var questionsRemoveCmd = &cobra.Command{
	Use:   "remove <question-id>",
	Short: "Remove a custom question",
	Long:  `Remove a custom question. Built-in questions cannot be removed.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			q, ok := a.questions.ByID(args[0])
			if !ok {
				return fmt.Errorf("question %q not found", args[0])
			}
			if q.Origin == question.OriginBuiltIn {
				return fmt.Errorf("built-in questions cannot be removed")
			}
			a.questions.Remove(q.ID)
			a.wrongBook.Remove(q.ID)
			a.notes.Remove(q.ID)
			fmt.Println("Removed", q.ID)
			return nil
		})
	},
}

func init() {
	questionsAddCmd.Flags().StringVar(&addTitle, "title", "", "Question text")
	questionsAddCmd.Flags().StringArrayVar(&addOptions, "option", nil, "Option as label=text (repeatable)")
	questionsAddCmd.Flags().StringArrayVar(&addAnswers, "answer", nil, "Correct option label (repeatable)")
	questionsAddCmd.Flags().StringVar(&addExplanation, "explanation", "", "Answer explanation")
	questionsAddCmd.Flags().StringVar(&addDifficulty, "difficulty", "Medium", "Difficulty: Easy, Medium, Hard")
	questionsAddCmd.Flags().StringVar(&addChapter, "chapter", "", "Chapter name (defaults to the identity's default chapter)")
	questionsCmd.AddCommand(questionsShowCmd)
	questionsCmd.AddCommand(questionsAddCmd)
	questionsCmd.AddCommand(questionsRemoveCmd)
	rootCmd.AddCommand(questionsCmd)
}
