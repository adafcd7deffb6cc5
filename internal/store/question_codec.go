package store

import (
	"log/slog"
	"sort"
	"time"

	"github.com/beevik/etree"

	"github.com/lilulei/ruankao/internal/domain/exam"
	"github.com/lilulei/ruankao/internal/domain/question"
)

// defaultExamDate stands in for unparseable exam dates, matching the
// fallback earlier releases used.
var defaultExamDate = time.Date(2025, time.November, 8, 0, 0, 0, 0, time.UTC)

// EncodeQuestions renders the question bank as a QuestionService document
// root. Enum attributes carry display names; symbolic names are accepted on
// decode as well.
func EncodeQuestions(questions []question.Question) *etree.Element {
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })

	root := etree.NewElement("QuestionService")
	for _, q := range questions {
		e := root.CreateElement("question")
		e.CreateAttr("id", q.ID)
		e.CreateAttr("title", q.Title)
		e.CreateAttr("level", q.Difficulty.DisplayName())
		e.CreateAttr("examType", q.ExamType.DisplayName())
		e.CreateAttr("examLevel", q.ExamLevel.DisplayName())
		e.CreateAttr("year", q.ExamDate.Format(time.DateOnly))
		if q.Chapter != "" {
			e.CreateAttr("chapter", q.Chapter)
		}
		if q.Origin != "" {
			e.CreateAttr("origin", string(q.Origin))
		}

		opts := e.CreateElement("options")
		for _, key := range sortedKeys(q.Options) {
			o := opts.CreateElement("option")
			o.CreateAttr("key", key)
			o.SetText(q.Options[key])
		}

		answers := e.CreateElement("correctAnswers")
		labels := append([]string(nil), q.CorrectAnswers...)
		sort.Strings(labels)
		for _, a := range labels {
			answers.CreateElement("answer").SetText(a)
		}

		e.CreateElement("explanation").SetText(q.Explanation)
	}
	return root
}

// DecodeQuestions reads a QuestionService document root back into
// questions. Records without an id are dropped; unrecognized enum values
// fall back to their defaults with a warning.
func DecodeQuestions(root *etree.Element, logger *slog.Logger) []question.Question {
	var out []question.Question
	for _, e := range root.SelectElements("question") {
		id := e.SelectAttrValue("id", "")
		if id == "" {
			logger.Warn("dropping question without id")
			continue
		}

		difficulty, ok := question.ParseDifficulty(e.SelectAttrValue("level", ""))
		if !ok {
			logger.Warn("unrecognized difficulty, using default", "question_id", id)
		}
		examType, ok := exam.ParseType(e.SelectAttrValue("examType", ""))
		if !ok {
			logger.Warn("unrecognized exam title, using default", "question_id", id)
		}
		examLevel, ok := exam.ParseLevel(e.SelectAttrValue("examLevel", ""))
		if !ok {
			logger.Warn("unrecognized exam level, using default", "question_id", id)
		}
		origin, _ := question.ParseOrigin(e.SelectAttrValue("origin", ""))

		options := make(map[string]string)
		if opts := e.SelectElement("options"); opts != nil {
			for _, o := range opts.SelectElements("option") {
				key := o.SelectAttrValue("key", "")
				if key != "" {
					options[key] = o.Text()
				}
			}
		}

		var answers []string
		if ans := e.SelectElement("correctAnswers"); ans != nil {
			for _, a := range ans.SelectElements("answer") {
				if a.Text() != "" {
					answers = append(answers, a.Text())
				}
			}
		}

		explanation := ""
		if ex := e.SelectElement("explanation"); ex != nil {
			explanation = ex.Text()
		}

		out = append(out, question.Question{
			ID:             id,
			Title:          e.SelectAttrValue("title", ""),
			Options:        options,
			CorrectAnswers: answers,
			Explanation:    explanation,
			Difficulty:     difficulty,
			Chapter:        e.SelectAttrValue("chapter", ""),
			ExamDate:       dateAttr(e, "year", defaultExamDate),
			ExamType:       examType,
			ExamLevel:      examLevel,
			Origin:         origin,
		})
	}
	return out
}
