package main

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lilulei/ruankao/internal/domain/question"
	"github.com/lilulei/ruankao/internal/domain/session"
	"github.com/lilulei/ruankao/internal/store"
)

var (
	startMode       string
	startCount      int
	startChapter    string
	startDifficulty string
	startWrong      bool
	historyArchive  bool
	historyLimit    int
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start an interactive practice session",
	Long: `Start a practice session over questions of the selected identity.
--chapter restricts the pool to one chapter, --difficulty to one grade,
--wrong practices your unmastered wrong questions instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, ok := session.ParseType(modeAlias(startMode))
		if !ok {
			return fmt.Errorf("unknown mode %q", startMode)
		}
		return withApp(func(a *app) error {
			pool, err := buildPool(a)
			if err != nil {
				return err
			}
			if len(pool) == 0 {
				fmt.Println("No questions match; import some or widen the filters.")
				return nil
			}
			questions := pick(pool, startCount)
			runSession(a, mode, questions)
			return nil
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show completed practice sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			if historyArchive {
				return printArchive(a)
			}
			history := a.engine.History()
			if len(history) == 0 {
				fmt.Println("No sessions yet.")
				return nil
			}
			for _, s := range history {
				fmt.Printf("%s  %-16s %2d/%2d correct  %s\n",
					s.StartTime.Format("2006-01-02 15:04"),
					s.SessionType.DisplayName(),
					s.CorrectCount(), len(s.Questions),
					s.Duration().Round(time.Second))
			}
			return nil
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show one archived session with its answers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			s, err := a.archive.Session(args[0])
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no archived session %q", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Printf("%s  %s  %d/%d correct\n",
				s.StartedAt.Format("2006-01-02 15:04"),
				s.SessionType.DisplayName(),
				s.CorrectCount, s.QuestionCount)

			answers, err := a.archive.Answers(s.SessionID)
			if err != nil {
				return err
			}
			for _, ans := range answers {
				mark := "✗"
				if ans.IsCorrect {
					mark = "✓"
				}
				title := ans.QuestionID
				if q, ok := a.questions.ByID(ans.QuestionID); ok {
					title = q.Title
				}
				fmt.Printf("  %s %-40s answered %s\n",
					mark, title, strings.Join(ans.SelectedOptions, ", "))
			}
			return nil
		})
	},
}

func printArchive(a *app) error {
	sessions, err := a.archive.RecentSessions(historyLimit)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("Archive is empty.")
		return nil
	}
	for _, s := range sessions {
		fmt.Printf("%s  %-16s %2d/%2d correct  %s\n",
			s.StartedAt.Format("2006-01-02 15:04"),
			s.SessionType.DisplayName(),
			s.CorrectCount, s.QuestionCount,
			s.SessionID)
	}
	return nil
}

// buildPool gathers the candidate questions for the requested filters,
// always scoped to the selected identity.
func buildPool(a *app) ([]question.Question, error) {
	level, typ := a.identity.Level(), a.identity.Type()

	if startWrong {
		var pool []question.Question
		for _, info := range a.wrongBook.Unmastered() {
			if info.ExamLevel != level || info.ExamType != typ {
				continue
			}
			if q, ok := a.questions.ByID(info.QuestionID); ok {
				pool = append(pool, q)
			}
		}
		return pool, nil
	}

	var pool []question.Question
	if startChapter != "" {
		pool = a.questions.ByIdentityAndChapter(level, typ, startChapter)
	} else {
		pool = a.questions.ByIdentity(level, typ)
	}

	if startDifficulty != "" {
		d, ok := question.ParseDifficulty(startDifficulty)
		if !ok {
			return nil, fmt.Errorf("unknown difficulty %q", startDifficulty)
		}
		filtered := pool[:0]
		for _, q := range pool {
			if q.Difficulty == d {
				filtered = append(filtered, q)
			}
		}
		pool = filtered
	}
	return pool, nil
}

// pick samples up to n questions without replacement.
func pick(pool []question.Question, n int) []question.Question {
	if n <= 0 || n >= len(pool) {
		n = len(pool)
	}
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool[:n]
}

func runSession(a *app, mode session.Type, questions []question.Question) {
	s := a.engine.Start(mode, questions)
	fmt.Printf("Session started: %s, %d questions\n\n", mode.DisplayName(), len(questions))

	reader := bufio.NewReader(os.Stdin)
	for i, q := range questions {
		fmt.Printf("[%d/%d] %s\n", i+1, len(questions), q.Title)
		for _, key := range sortedOptionKeys(q.Options) {
			fmt.Printf("  %s. %s\n", key, q.Options[key])
		}
		if len(q.CorrectAnswers) > 1 {
			fmt.Printf("(multiple answers, comma-separated)\n")
		}

		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nSession aborted; answered questions are recorded.")
			a.engine.End()
			break
		}
		selected := splitAnswer(line)

		record, ok := a.engine.SubmitAnswer(q.ID, selected)
		if !ok {
			// The mock exam timer can end the session mid-loop.
			fmt.Println("Session is over.")
			break
		}
		if record.IsCorrect {
			fmt.Println("Correct!")
		} else {
			fmt.Printf("Wrong. Correct answer: %s\n", strings.Join(q.CorrectAnswers, ", "))
			if q.Explanation != "" {
				fmt.Printf("Explanation: %s\n", q.Explanation)
			}
		}
		fmt.Println()
	}

	a.engine.End()
	fmt.Printf("Done: %d/%d correct.\n", s.CorrectCount(), len(s.Answers))
}

func splitAnswer(line string) []string {
	var selected []string
	for _, part := range strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	}) {
		selected = append(selected, strings.ToUpper(strings.TrimSpace(part)))
	}
	return selected
}

func sortedOptionKeys(options map[string]string) []string {
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// modeAlias maps the short CLI mode names onto the stored session types.
func modeAlias(mode string) string {
	switch strings.ToLower(mode) {
	case "daily":
		return string(session.TypeDaily)
	case "topic":
		return string(session.TypeSpecialTopic)
	case "mock":
		return string(session.TypeMockExam)
	case "random":
		return string(session.TypeRandom)
	}
	return mode
}

func init() {
	startCmd.Flags().StringVarP(&startMode, "mode", "m", "random", "Session mode: daily, topic, mock, random")
	startCmd.Flags().IntVarP(&startCount, "count", "n", 10, "Number of questions")
	startCmd.Flags().StringVar(&startChapter, "chapter", "", "Restrict to one chapter")
	startCmd.Flags().StringVar(&startDifficulty, "difficulty", "", "Restrict to one difficulty")
	startCmd.Flags().BoolVar(&startWrong, "wrong", false, "Practice unmastered wrong questions")
	historyCmd.Flags().BoolVar(&historyArchive, "archive", false, "Read from the long-term archive")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Archive rows to show")
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(historyCmd)
}
