package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/beevik/etree"

	"github.com/lilulei/ruankao/internal/domain/chapter"
	"github.com/lilulei/ruankao/internal/domain/exam"
	"github.com/lilulei/ruankao/internal/domain/note"
	"github.com/lilulei/ruankao/internal/domain/question"
	"github.com/lilulei/ruankao/internal/domain/session"
	"github.com/lilulei/ruankao/internal/domain/stats"
	"github.com/lilulei/ruankao/internal/domain/wrongbook"
)

// State file names, one document per component. The names are part of the
// on-disk contract with earlier releases.
const (
	identityFile  = "user_identity.xml"
	questionsFile = "softexam_questions.xml"
	chaptersFile  = "knowledge_chapters.xml"
	wrongFile     = "softexam_wrong_questions.xml"
	statsFile     = "softexam_learning_statistics.xml"
	sessionsFile  = "softexam_practices.xml"
	notesFile     = "softexam_question_notes.xml"
)

// Components are the live state holders the file store loads and saves.
type Components struct {
	Identity  *exam.IdentityContext
	Questions *question.Repository
	Chapters  *chapter.Repository
	WrongBook *wrongbook.Tracker
	Stats     *stats.Aggregator
	Sessions  *session.Engine
	Notes     *note.Notebook
}

// FileStore persists each component to its own XML document under a data
// directory. Writes go through a temp file and a rename, so a crash mid-save
// never truncates a state file. Mark records which components changed;
// FlushDirty writes only those.
type FileStore struct {
	dir    string
	comps  Components
	logger *slog.Logger

	mu    sync.Mutex
	dirty map[Component]bool
}

// NewFileStore creates the data directory if needed and returns a store
// bound to the given components.
func NewFileStore(dir string, comps Components, logger *slog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{
		dir:    dir,
		comps:  comps,
		logger: logger,
		dirty:  make(map[Component]bool),
	}, nil
}

// Dir returns the data directory.
func (fs *FileStore) Dir() string {
	return fs.dir
}

// Mark flags a component as changed since the last save.
func (fs *FileStore) Mark(c Component) {
	fs.mu.Lock()
	fs.dirty[c] = true
	fs.mu.Unlock()
}

// LoadAll restores every component from disk. Missing files are a first
// run and are skipped silently; a file that fails to parse is logged and
// leaves its component empty. Sessions are loaded after questions so their
// question ids resolve.
func (fs *FileStore) LoadAll() error {
	if root, ok := fs.readRoot(identityFile, "UserIdentityService"); ok {
		DecodeIdentity(root, fs.comps.Identity, fs.logger)
	}
	if root, ok := fs.readRoot(questionsFile, "QuestionService"); ok {
		questions := DecodeQuestions(root, fs.logger)
		fs.comps.Questions.ReplaceAll(questions)
		fs.logger.Info("questions loaded", "count", len(questions))
	}
	if root, ok := fs.readRoot(chaptersFile, "KnowledgeChapterService"); ok {
		chapters := DecodeChapters(root, fs.logger)
		fs.comps.Chapters.ReplaceAll(chapters)
		fs.logger.Info("chapters loaded", "count", len(chapters))
	}
	if root, ok := fs.readRoot(wrongFile, "WrongQuestionService"); ok {
		entries := DecodeWrongBook(root, fs.logger)
		fs.comps.WrongBook.ReplaceAll(entries)
		fs.logger.Info("wrong book loaded", "count", len(entries))
	}
	if root, ok := fs.readRoot(statsFile, "LearningStatisticsService"); ok {
		snapshots := DecodeStatistics(root, fs.logger)
		fs.comps.Stats.ReplaceAll(snapshots)
		fs.logger.Info("statistics loaded", "identities", len(snapshots))
	}
	if root, ok := fs.readRoot(sessionsFile, "PracticeService"); ok {
		history := DecodeSessions(root, fs.comps.Questions.ByID, fs.logger)
		fs.comps.Sessions.RestoreHistory(history)
		fs.logger.Info("session history loaded", "count", len(history))
	}
	if root, ok := fs.readRoot(notesFile, "QuestionNoteService"); ok {
		notes := DecodeNotes(root, fs.logger)
		fs.comps.Notes.ReplaceAll(notes)
		fs.logger.Info("notes loaded", "count", len(notes))
	}
	return nil
}

// FlushDirty writes every component flagged since the last save.
func (fs *FileStore) FlushDirty() error {
	fs.mu.Lock()
	pending := make([]Component, 0, len(fs.dirty))
	for c := range fs.dirty {
		pending = append(pending, c)
	}
	fs.dirty = make(map[Component]bool)
	fs.mu.Unlock()

	var errs []error
	for _, c := range pending {
		if err := fs.Save(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SaveAll writes every component unconditionally.
func (fs *FileStore) SaveAll() error {
	var errs []error
	for _, c := range []Component{
		ComponentIdentity, ComponentQuestions, ComponentChapters,
		ComponentWrongBook, ComponentStats, ComponentSessions, ComponentNotes,
	} {
		if err := fs.Save(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Save writes one component's document.
func (fs *FileStore) Save(c Component) error {
	switch c {
	case ComponentIdentity:
		return fs.writeDoc(identityFile, EncodeIdentity(fs.comps.Identity))
	case ComponentQuestions:
		return fs.writeDoc(questionsFile, EncodeQuestions(fs.comps.Questions.All()))
	case ComponentChapters:
		return fs.writeDoc(chaptersFile, EncodeChapters(fs.comps.Chapters.All()))
	case ComponentWrongBook:
		return fs.writeDoc(wrongFile, EncodeWrongBook(fs.comps.WrongBook.All()))
	case ComponentStats:
		return fs.writeDoc(statsFile, EncodeStatistics(fs.comps.Stats.All()))
	case ComponentSessions:
		return fs.writeDoc(sessionsFile, EncodeSessions(fs.comps.Sessions.History()))
	case ComponentNotes:
		return fs.writeDoc(notesFile, EncodeNotes(fs.comps.Notes.All()))
	}
	return fmt.Errorf("unknown component %q", c)
}

func (fs *FileStore) readRoot(name, rootTag string) (*etree.Element, bool) {
	path := filepath.Join(fs.dir, name)
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		if !os.IsNotExist(err) {
			fs.logger.Error("failed to read state file, starting empty", "file", name, "error", err)
		}
		return nil, false
	}
	root := doc.Root()
	if root == nil || root.Tag != rootTag {
		fs.logger.Error("state file has unexpected root element, starting empty", "file", name)
		return nil, false
	}
	return root, true
}

func (fs *FileStore) writeDoc(name string, root *etree.Element) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.SetRoot(root)
	doc.Indent(2)
	data, err := doc.WriteToBytes()
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	path := filepath.Join(fs.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	fs.logger.Debug("state file saved", "file", name)
	return nil
}
