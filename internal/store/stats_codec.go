package store

import (
	"log/slog"
	"sort"
	"time"

	"github.com/beevik/etree"

	"github.com/lilulei/ruankao/internal/domain/exam"
	"github.com/lilulei/ruankao/internal/domain/stats"
)

// EncodeStatistics renders the per-identity snapshots as a
// LearningStatisticsService document root, one statistics element per
// identity with its daily records nested inside. Earlier releases wrote a
// single statistics element with the daily records as a sibling; DecodeStatistics
// still accepts that layout.
func EncodeStatistics(snapshots []stats.Statistics) *etree.Element {
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Identity().String() < snapshots[j].Identity().String()
	})

	root := etree.NewElement("LearningStatisticsService")
	for _, s := range snapshots {
		e := root.CreateElement("statistics")
		setInt(e, "totalPractices", s.TotalPractices)
		setInt(e, "totalQuestions", s.TotalQuestions)
		setInt(e, "correctAnswers", s.CorrectAnswers)
		setInt(e, "studyTimeMinutes", s.StudyTimeMinutes)
		setInt(e, "dailyStreak", s.DailyStreak)
		if !s.LastStudyDate.IsZero() {
			setMillis(e, "lastStudyDate", s.LastStudyDate)
		}
		if s.ExamLevel != "" {
			e.CreateAttr("examLevel", string(s.ExamLevel))
		}
		if s.ExamType != "" {
			e.CreateAttr("examType", string(s.ExamType))
		}

		cats := e.CreateElement("categoryStats")
		for _, name := range sortedKeys(s.CategoryStats) {
			cat := s.CategoryStats[name]
			ce := cats.CreateElement("stat")
			ce.CreateAttr("categoryName", name)
			setInt(ce, "totalQuestions", cat.TotalQuestions)
			setInt(ce, "correctAnswers", cat.CorrectAnswers)
			setBool(ce, "mastered", cat.Mastered)
		}

		achievements := e.CreateElement("achievements")
		names := make([]string, 0, len(s.Achievements))
		for name, unlocked := range s.Achievements {
			if unlocked {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		for _, name := range names {
			achievements.CreateElement("achievement").SetText(name)
		}

		daily := e.CreateElement("dailyRecords")
		for _, date := range sortedKeys(s.DailyRecords) {
			rec := s.DailyRecords[date]
			re := daily.CreateElement("record")
			re.CreateAttr("date", date)
			setInt(re, "practices", rec.Practices)
			setInt(re, "questions", rec.QuestionsAnswered)
			setInt(re, "correct", rec.CorrectlyAnswered)
			setInt(re, "timeSpent", rec.TimeSpentMinutes)
		}
	}
	return root
}

// DecodeStatistics reads a LearningStatisticsService document root back into
// snapshots. A legacy document with the daily records next to a single
// statistics element folds those records into that snapshot.
func DecodeStatistics(root *etree.Element, logger *slog.Logger) []stats.Statistics {
	var out []stats.Statistics
	for _, e := range root.SelectElements("statistics") {
		level, ok := exam.ParseLevel(e.SelectAttrValue("examLevel", ""))
		if !ok {
			logger.Warn("statistics snapshot with unrecognized exam level, using default")
		}
		typ, ok := exam.ParseType(e.SelectAttrValue("examType", ""))
		if !ok {
			logger.Warn("statistics snapshot with unrecognized exam title, using default")
		}

		s := stats.NewStatistics(exam.Identity{Level: level, Type: typ})
		s.TotalPractices = intAttr(e, "totalPractices", 0)
		s.TotalQuestions = intAttr(e, "totalQuestions", 0)
		s.CorrectAnswers = intAttr(e, "correctAnswers", 0)
		s.StudyTimeMinutes = intAttr(e, "studyTimeMinutes", 0)
		s.DailyStreak = intAttr(e, "dailyStreak", 0)
		s.LastStudyDate = millisAttr(e, "lastStudyDate", time.Time{})

		if cats := e.SelectElement("categoryStats"); cats != nil {
			for _, ce := range cats.SelectElements("stat") {
				name := ce.SelectAttrValue("categoryName", "")
				if name == "" {
					logger.Warn("dropping category stat without name")
					continue
				}
				s.CategoryStats[name] = stats.CategoryStat{
					CategoryName:   name,
					TotalQuestions: intAttr(ce, "totalQuestions", 0),
					CorrectAnswers: intAttr(ce, "correctAnswers", 0),
					Mastered:       boolAttr(ce, "mastered", false),
				}
			}
		}

		if achievements := e.SelectElement("achievements"); achievements != nil {
			for _, ae := range achievements.SelectElements("achievement") {
				if ae.Text() != "" {
					s.Achievements[ae.Text()] = true
				}
			}
		}

		if daily := e.SelectElement("dailyRecords"); daily != nil {
			decodeDailyRecords(daily, s, logger)
		}

		out = append(out, *s)
	}

	// Legacy layout: daily records as a sibling of a single statistics
	// element.
	if daily := root.SelectElement("dailyRecords"); daily != nil {
		if len(out) == 0 {
			out = append(out, *stats.NewStatistics(exam.Identity{
				Level: exam.LevelSenior,
				Type:  exam.TypeProjectManager,
			}))
		}
		decodeDailyRecords(daily, &out[0], logger)
	}
	return out
}

func decodeDailyRecords(daily *etree.Element, s *stats.Statistics, logger *slog.Logger) {
	for _, re := range daily.SelectElements("record") {
		date := re.SelectAttrValue("date", "")
		if date == "" {
			logger.Warn("dropping daily record without date")
			continue
		}
		s.DailyRecords[date] = stats.DailyPracticeRecord{
			Practices:         intAttr(re, "practices", 0),
			QuestionsAnswered: intAttr(re, "questions", 0),
			CorrectlyAnswered: intAttr(re, "correct", 0),
			TimeSpentMinutes:  intAttr(re, "timeSpent", 0),
		}
	}
}
