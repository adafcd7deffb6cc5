package store

import (
	"log/slog"
	"sort"
	"time"

	"github.com/beevik/etree"

	"github.com/lilulei/ruankao/internal/domain/exam"
	"github.com/lilulei/ruankao/internal/domain/wrongbook"
)

// EncodeWrongBook renders the wrong book as a WrongQuestionService document
// root.
func EncodeWrongBook(entries []wrongbook.Info) *etree.Element {
	sort.Slice(entries, func(i, j int) bool { return entries[i].QuestionID < entries[j].QuestionID })

	root := etree.NewElement("WrongQuestionService")
	for _, info := range entries {
		e := root.CreateElement("wrongQuestion")
		e.CreateAttr("questionId", info.QuestionID)
		setInt(e, "errorCount", info.ErrorCount)
		setMillis(e, "lastErrorTime", info.LastErrorTime)
		setBool(e, "mastered", info.Mastered)
		setInt(e, "consecutiveCorrectCount", info.ConsecutiveCorrect)
		if info.ExamLevel != "" {
			e.CreateAttr("examLevel", string(info.ExamLevel))
		}
		if info.ExamType != "" {
			e.CreateAttr("examType", string(info.ExamType))
		}
	}
	return root
}

// DecodeWrongBook reads a WrongQuestionService document root back into wrong
// book entries. Records without a question id are dropped; counters missing
// or unparseable fall back to a single error, never seen correct.
func DecodeWrongBook(root *etree.Element, logger *slog.Logger) []wrongbook.Info {
	var out []wrongbook.Info
	for _, e := range root.SelectElements("wrongQuestion") {
		id := e.SelectAttrValue("questionId", "")
		if id == "" {
			logger.Warn("dropping wrong-book entry without question id")
			continue
		}
		var level exam.Level
		if raw := e.SelectAttrValue("examLevel", ""); raw != "" {
			level, _ = exam.ParseLevel(raw)
		}
		var typ exam.Type
		if raw := e.SelectAttrValue("examType", ""); raw != "" {
			typ, _ = exam.ParseType(raw)
		}
		out = append(out, wrongbook.Info{
			QuestionID:         id,
			ErrorCount:         intAttr(e, "errorCount", 1),
			LastErrorTime:      millisAttr(e, "lastErrorTime", time.Now()),
			Mastered:           boolAttr(e, "mastered", false),
			ConsecutiveCorrect: intAttr(e, "consecutiveCorrectCount", 0),
			ExamLevel:          level,
			ExamType:           typ,
		})
	}
	return out
}
