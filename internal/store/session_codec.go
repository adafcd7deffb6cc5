package store

import (
	"log/slog"
	"sort"
	"time"

	"github.com/beevik/etree"

	"github.com/lilulei/ruankao/internal/domain/question"
	"github.com/lilulei/ruankao/internal/domain/session"
)

// EncodeSessions renders the completed session history as a PracticeService
// document root. Sessions store question ids only; DecodeSessions resolves
// them against the question bank, so a question edit is reflected in old
// sessions and a deleted question silently leaves them.
func EncodeSessions(sessions []*session.PracticeSession) *etree.Element {
	root := etree.NewElement("PracticeService")
	for _, s := range sessions {
		e := root.CreateElement("session")
		e.CreateAttr("sessionId", s.SessionID)
		setMillis(e, "startTime", s.StartTime)
		if s.EndTime != nil {
			setMillis(e, "endTime", *s.EndTime)
		}
		e.CreateAttr("sessionType", string(s.SessionType))

		questions := e.CreateElement("questions")
		for _, q := range s.Questions {
			questions.CreateElement("question").CreateAttr("id", q.ID)
		}

		answers := e.CreateElement("answers")
		ids := make([]string, 0, len(s.Answers))
		for id := range s.Answers {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			a := s.Answers[id]
			ae := answers.CreateElement("answer")
			ae.CreateAttr("questionId", id)
			setBool(ae, "isCorrect", a.IsCorrect)
			setMillis(ae, "answeredAt", a.AnsweredAt)
			selected := ae.CreateElement("selectedOptions")
			for _, opt := range a.SelectedOptions {
				selected.CreateElement("option").SetText(opt)
			}
		}
	}
	return root
}

// DecodeSessions reads a PracticeService document root back into sessions,
// resolving question ids through lookup. Sessions without an id are
// dropped; question ids no longer in the bank are skipped with a warning.
func DecodeSessions(root *etree.Element, lookup func(string) (question.Question, bool), logger *slog.Logger) []*session.PracticeSession {
	var out []*session.PracticeSession
	for _, e := range root.SelectElements("session") {
		id := e.SelectAttrValue("sessionId", "")
		if id == "" {
			logger.Warn("dropping session without id")
			continue
		}
		sessionType, ok := session.ParseType(e.SelectAttrValue("sessionType", ""))
		if !ok {
			logger.Warn("unrecognized session type, using default", "session_id", id)
		}

		s := &session.PracticeSession{
			SessionID:   id,
			StartTime:   millisAttr(e, "startTime", time.Now()),
			Answers:     make(map[string]session.AnswerRecord),
			SessionType: sessionType,
		}
		if end := millisAttr(e, "endTime", time.Time{}); !end.IsZero() {
			s.EndTime = &end
		}

		if questions := e.SelectElement("questions"); questions != nil {
			for _, qe := range questions.SelectElements("question") {
				qid := qe.SelectAttrValue("id", "")
				if qid == "" {
					continue
				}
				q, found := lookup(qid)
				if !found {
					logger.Warn("session references unknown question, skipping",
						"session_id", id, "question_id", qid)
					continue
				}
				s.Questions = append(s.Questions, q)
			}
		}

		if answers := e.SelectElement("answers"); answers != nil {
			for _, ae := range answers.SelectElements("answer") {
				qid := ae.SelectAttrValue("questionId", "")
				if qid == "" {
					continue
				}
				var selected []string
				if se := ae.SelectElement("selectedOptions"); se != nil {
					for _, oe := range se.SelectElements("option") {
						selected = append(selected, oe.Text())
					}
				}
				s.Answers[qid] = session.AnswerRecord{
					QuestionID:      qid,
					SelectedOptions: selected,
					IsCorrect:       boolAttr(ae, "isCorrect", false),
					AnsweredAt:      millisAttr(ae, "answeredAt", time.Now()),
				}
			}
		}

		out = append(out, s)
	}
	return out
}
