// Package exporter renders progress reports as CSV, for spreadsheets and
// further analysis outside the tool.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/lilulei/ruankao/internal/domain/exam"
	"github.com/lilulei/ruankao/internal/domain/question"
	"github.com/lilulei/ruankao/internal/domain/stats"
	"github.com/lilulei/ruankao/internal/domain/wrongbook"
)

// Exporter reads from the statistics aggregator and the wrong book; it
// never mutates them.
type Exporter struct {
	stats     *stats.Aggregator
	wrongBook *wrongbook.Tracker
	questions *question.Repository
}

// New creates an exporter over the given components.
func New(aggregator *stats.Aggregator, wrongBook *wrongbook.Tracker, questions *question.Repository) *Exporter {
	return &Exporter{
		stats:     aggregator,
		wrongBook: wrongBook,
		questions: questions,
	}
}

// WriteSummary writes the identity's one-line progress summary.
func (e *Exporter) WriteSummary(w io.Writer, identity exam.Identity) error {
	s := e.stats.ForIdentity(identity)
	cw := csv.NewWriter(w)
	rows := [][]string{
		{"examLevel", "examType", "totalPractices", "totalQuestions", "correctAnswers", "accuracy", "studyTimeMinutes", "dailyStreak", "lastStudyDate"},
		{
			s.ExamLevel.DisplayName(),
			s.ExamType.DisplayName(),
			strconv.Itoa(s.TotalPractices),
			strconv.Itoa(s.TotalQuestions),
			strconv.Itoa(s.CorrectAnswers),
			formatRatio(s.Accuracy()),
			strconv.Itoa(s.StudyTimeMinutes),
			strconv.Itoa(s.DailyStreak),
			formatDate(s.LastStudyDate),
		},
	}
	return writeAll(cw, rows)
}

// WriteCategories writes one row per category, sorted by name.
func (e *Exporter) WriteCategories(w io.Writer, identity exam.Identity) error {
	s := e.stats.ForIdentity(identity)
	names := make([]string, 0, len(s.CategoryStats))
	for name := range s.CategoryStats {
		names = append(names, name)
	}
	sort.Strings(names)

	cw := csv.NewWriter(w)
	rows := [][]string{{"category", "totalQuestions", "correctAnswers", "accuracy", "mastered"}}
	for _, name := range names {
		cat := s.CategoryStats[name]
		accuracy := 0.0
		if cat.TotalQuestions > 0 {
			accuracy = float64(cat.CorrectAnswers) / float64(cat.TotalQuestions)
		}
		rows = append(rows, []string{
			name,
			strconv.Itoa(cat.TotalQuestions),
			strconv.Itoa(cat.CorrectAnswers),
			formatRatio(accuracy),
			strconv.FormatBool(cat.Mastered),
		})
	}
	return writeAll(cw, rows)
}

// WriteDailyRecords writes one row per practiced calendar day, oldest first.
func (e *Exporter) WriteDailyRecords(w io.Writer, identity exam.Identity) error {
	records := e.stats.DailyRecords(identity)
	dates := make([]string, 0, len(records))
	for d := range records {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	cw := csv.NewWriter(w)
	rows := [][]string{{"date", "practices", "questionsAnswered", "correctlyAnswered", "timeSpentMinutes"}}
	for _, d := range dates {
		rec := records[d]
		rows = append(rows, []string{
			d,
			strconv.Itoa(rec.Practices),
			strconv.Itoa(rec.QuestionsAnswered),
			strconv.Itoa(rec.CorrectlyAnswered),
			strconv.Itoa(rec.TimeSpentMinutes),
		})
	}
	return writeAll(cw, rows)
}

// WriteWrongBook writes the identity's wrong-question entries, highest
// error count first. Question titles are resolved against the bank; a
// deleted question exports with an empty title.
func (e *Exporter) WriteWrongBook(w io.Writer, identity exam.Identity) error {
	entries := e.wrongBook.ForIdentity(identity)
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ErrorCount != entries[j].ErrorCount {
			return entries[i].ErrorCount > entries[j].ErrorCount
		}
		return entries[i].QuestionID < entries[j].QuestionID
	})

	cw := csv.NewWriter(w)
	rows := [][]string{{"questionId", "title", "errorCount", "consecutiveCorrect", "mastered", "lastErrorTime"}}
	for _, entry := range entries {
		title := ""
		if q, ok := e.questions.ByID(entry.QuestionID); ok {
			title = q.Title
		}
		rows = append(rows, []string{
			entry.QuestionID,
			title,
			strconv.Itoa(entry.ErrorCount),
			strconv.Itoa(entry.ConsecutiveCorrect),
			strconv.FormatBool(entry.Mastered),
			formatDate(entry.LastErrorTime),
		})
	}
	return writeAll(cw, rows)
}

func writeAll(cw *csv.Writer, rows [][]string) error {
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatRatio(r float64) string {
	return fmt.Sprintf("%.1f%%", r*100)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
