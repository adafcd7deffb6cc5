// Package importer loads question sets from JSON files into the question
// bank: learner-supplied files and the built-in sets shipped per exam
// title. Imports never overwrite; a question id already in the bank is
// skipped.
package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/lilulei/ruankao/internal/domain/chapter"
	"github.com/lilulei/ruankao/internal/domain/exam"
	"github.com/lilulei/ruankao/internal/domain/question"
)

// questionRecord is the JSON wire form of one question.
type questionRecord struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Options        map[string]string `json:"options"`
	CorrectAnswers []string          `json:"correctAnswers"`
	Explanation    string            `json:"explanation"`
	Level          string            `json:"level"`
	Chapter        string            `json:"chapter"`
	Year           string            `json:"year"`
	ExamType       string            `json:"examType"`
	ExamLevel      string            `json:"examLevel"`
}

func (r questionRecord) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required),
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Options, validation.Required, validation.Length(2, 0)),
		validation.Field(&r.CorrectAnswers, validation.Required, validation.By(r.answersWithinOptions)),
	)
}

func (r questionRecord) answersWithinOptions(value interface{}) error {
	answers, _ := value.([]string)
	for _, a := range answers {
		if _, ok := r.Options[a]; !ok {
			return fmt.Errorf("answer %q is not an option label", a)
		}
	}
	return nil
}

// defaultExamDate stands in for missing or unparseable exam dates.
var defaultExamDate = time.Date(2025, time.November, 8, 0, 0, 0, 0, time.UTC)

// Result summarizes one import run. Errors holds the per-record validation
// failures of skipped records; the run itself still succeeds.
type Result struct {
	Imported int
	Skipped  int
	Errors   []error
}

// Importer feeds validated questions into the bank and keeps the chapter
// tree in sync with the chapters those questions reference.
type Importer struct {
	questions *question.Repository
	chapters  *chapter.Repository
	logger    *slog.Logger

	mu     sync.Mutex
	loaded map[exam.Type]bool
}

// New creates an importer bound to the question bank and chapter tree.
func New(questions *question.Repository, chapters *chapter.Repository, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		questions: questions,
		chapters:  chapters,
		logger:    logger,
		loaded:    make(map[exam.Type]bool),
	}
}

// ImportJSON reads a JSON array of questions and adds the valid new ones to
// the bank with the given origin. Invalid records and ids already present
// are skipped, counted, and reported in the result.
func (im *Importer) ImportJSON(r io.Reader, origin question.Origin) (Result, error) {
	var records []questionRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return Result{}, fmt.Errorf("parse questions: %w", err)
	}

	var res Result
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Errorf("question %q: %w", rec.ID, err))
			continue
		}
		if im.questions.Exists(rec.ID) {
			res.Skipped++
			continue
		}
		q := rec.toQuestion(origin)
		im.questions.Add(q)
		im.syncChapter(q)
		res.Imported++
	}

	im.logger.Info("questions imported",
		"imported", res.Imported,
		"skipped", res.Skipped,
		"invalid", len(res.Errors))
	return res, nil
}

// ImportFile imports a JSON question file from disk.
func (im *Importer) ImportFile(path string, origin question.Origin) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()
	return im.ImportJSON(f, origin)
}

// LoadBuiltIn imports the built-in question set for one exam title from
// dir, looking for <TYPE>.json. A missing file and an already-loaded title
// are both quiet no-ops, so the call is safe on every identity switch.
func (im *Importer) LoadBuiltIn(dir string, t exam.Type) (Result, error) {
	im.mu.Lock()
	done := im.loaded[t]
	im.mu.Unlock()
	if done {
		return Result{}, nil
	}

	path := filepath.Join(dir, string(t)+".json")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			im.logger.Debug("no built-in question set", "exam_type", t)
			return Result{}, nil
		}
		return Result{}, err
	}
	defer f.Close()

	res, err := im.ImportJSON(f, question.OriginBuiltIn)
	if err != nil {
		return res, fmt.Errorf("built-in set for %s: %w", t, err)
	}
	im.mu.Lock()
	im.loaded[t] = true
	im.mu.Unlock()
	return res, nil
}

func (rec questionRecord) toQuestion(origin question.Origin) question.Question {
	difficulty, _ := question.ParseDifficulty(rec.Level)
	examType, _ := exam.ParseType(rec.ExamType)
	examLevel, _ := exam.ParseLevel(rec.ExamLevel)
	examDate := defaultExamDate
	if d, err := time.Parse(time.DateOnly, rec.Year); err == nil {
		examDate = d
	}
	return question.Question{
		ID:             rec.ID,
		Title:          rec.Title,
		Options:        rec.Options,
		CorrectAnswers: rec.CorrectAnswers,
		Explanation:    rec.Explanation,
		Difficulty:     difficulty,
		Chapter:        rec.Chapter,
		ExamDate:       examDate,
		ExamType:       examType,
		ExamLevel:      examLevel,
		Origin:         origin,
	}
}

// syncChapter registers the question's chapter, scoped to the question's
// identity, unless an equal or wider-scoped chapter already exists.
func (im *Importer) syncChapter(q question.Question) {
	if q.Chapter == "" {
		return
	}
	level := q.ExamLevel.DisplayName()
	typ := q.ExamType.DisplayName()
	if im.chapters.NameExists(q.Chapter, level, typ) {
		return
	}
	im.chapters.Add(chapter.New(q.Chapter, level, typ))
	im.logger.Info("chapter registered from import", "chapter", q.Chapter, "exam_type", typ)
}
