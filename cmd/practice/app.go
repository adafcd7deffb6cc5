package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lilulei/ruankao/internal/domain/chapter"
	"github.com/lilulei/ruankao/internal/domain/exam"
	"github.com/lilulei/ruankao/internal/domain/note"
	"github.com/lilulei/ruankao/internal/domain/question"
	"github.com/lilulei/ruankao/internal/domain/session"
	"github.com/lilulei/ruankao/internal/domain/stats"
	"github.com/lilulei/ruankao/internal/domain/wrongbook"
	"github.com/lilulei/ruankao/internal/exporter"
	"github.com/lilulei/ruankao/internal/importer"
	"github.com/lilulei/ruankao/internal/infrastructure/config"
	"github.com/lilulei/ruankao/internal/store"
	"github.com/lilulei/ruankao/internal/worker"
)

// app wires the domain components, the file store, and the autosave worker
// for one command invocation. State is loaded on construction and any
// pending writes are flushed on Close.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	identity  *exam.IdentityContext
	questions *question.Repository
	chapters  *chapter.Repository
	wrongBook *wrongbook.Tracker
	stats     *stats.Aggregator
	engine    *session.Engine
	notes     *note.Notebook

	store    *store.FileStore
	saver    *worker.Saver
	archive  *store.SessionArchive
	importer *importer.Importer
	exporter *exporter.Exporter
}

func newApp() (*app, error) {
	cfg := config.Load()

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	a := &app{
		cfg:       cfg,
		logger:    logger,
		identity:  exam.NewIdentityContext(),
		questions: question.NewRepository(logger),
		chapters:  chapter.NewRepository(logger),
		wrongBook: wrongbook.NewTracker(logger),
		stats:     stats.NewAggregator(logger),
		notes:     note.NewNotebook(logger),
	}
	a.engine = session.NewEngine(a.identity, a.wrongBook, a.stats, cfg.MockExamDuration, logger)

	fs, err := store.NewFileStore(cfg.DataDir, store.Components{
		Identity:  a.identity,
		Questions: a.questions,
		Chapters:  a.chapters,
		WrongBook: a.wrongBook,
		Stats:     a.stats,
		Sessions:  a.engine,
		Notes:     a.notes,
	}, logger)
	if err != nil {
		return nil, err
	}
	a.store = fs
	if err := fs.LoadAll(); err != nil {
		return nil, err
	}

	a.saver = worker.NewSaver(cfg.AutosaveDelay, func() {
		if err := fs.FlushDirty(); err != nil {
			logger.Error("autosave failed", "error", err)
		}
	}, logger)
	a.wireAutosave()

	archive, err := store.NewSessionArchive(cfg.HistoryDBPath)
	if err != nil {
		return nil, fmt.Errorf("open session archive: %w", err)
	}
	a.archive = archive
	a.engine.SetArchiver(archive)

	a.importer = importer.New(a.questions, a.chapters, logger)
	a.exporter = exporter.New(a.stats, a.wrongBook, a.questions)

	// The built-in set for the selected title loads on startup and again
	// whenever the identity changes.
	if _, err := a.importer.LoadBuiltIn(cfg.BuiltInDir, a.identity.Type()); err != nil {
		logger.Warn("failed to load built-in questions", "error", err)
	}
	a.identity.AddListener(func(id exam.Identity) {
		if _, err := a.importer.LoadBuiltIn(cfg.BuiltInDir, id.Type); err != nil {
			logger.Warn("failed to load built-in questions", "error", err)
		}
	})

	return a, nil
}

func (a *app) wireAutosave() {
	mark := func(c store.Component) func() {
		return func() {
			a.store.Mark(c)
			a.saver.Schedule()
		}
	}
	a.questions.OnMutate(mark(store.ComponentQuestions))
	a.chapters.OnMutate(mark(store.ComponentChapters))
	a.wrongBook.OnMutate(mark(store.ComponentWrongBook))
	a.stats.OnMutate(mark(store.ComponentStats))
	a.engine.OnMutate(mark(store.ComponentSessions))
	a.notes.OnMutate(mark(store.ComponentNotes))
	a.identity.AddListener(func(exam.Identity) {
		a.store.Mark(store.ComponentIdentity)
		a.saver.Schedule()
	})
}

// Close flushes pending saves and releases the archive.
func (a *app) Close() {
	a.saver.Close()
	if err := a.store.FlushDirty(); err != nil {
		a.logger.Error("final save failed", "error", err)
	}
	if err := a.archive.Close(); err != nil {
		a.logger.Error("closing session archive failed", "error", err)
	}
}

// withApp builds the app, runs fn, and tears the app down afterwards.
func withApp(fn func(a *app) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
