package chapter

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// QuestionIndex is the read-only view of the question bank the deletion
// guard needs: how many questions reference a chapter name
// (case-insensitively).
type QuestionIndex interface {
	CountByChapter(name string) int
}

// Repository owns the knowledge chapters. Name uniqueness within a scope is
// checked by callers through NameExists before Add; the repository itself
// only enforces the deletion guard.
type Repository struct {
	mu       sync.RWMutex
	chapters map[string]KnowledgeChapter
	modCount atomic.Int64
	flush    func()
	logger   *slog.Logger
}

// NewRepository creates an empty chapter repository.
func NewRepository(logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		chapters: make(map[string]KnowledgeChapter),
		logger:   logger,
	}
}

// OnMutate registers the flush hook invoked after every mutation.
func (r *Repository) OnMutate(f func()) {
	r.mu.Lock()
	r.flush = f
	r.mu.Unlock()
}

// Add inserts a chapter. The caller must have verified name uniqueness
// within the target scope via NameExists.
func (r *Repository) Add(c KnowledgeChapter) {
	r.mu.Lock()
	r.chapters[c.ID] = c
	r.mu.Unlock()
	r.modCount.Add(1)

	r.logger.Info("chapter added", "id", c.ID, "name", c.Name,
		"level", orAny(c.Level), "exam_type", orAny(c.ExamType))
	r.requestFlush()
}

// Update replaces the chapter with the same id.
func (r *Repository) Update(c KnowledgeChapter) {
	r.mu.Lock()
	r.chapters[c.ID] = c
	r.mu.Unlock()
	r.modCount.Add(1)

	r.logger.Info("chapter updated", "id", c.ID, "name", c.Name)
	r.requestFlush()
}

// Remove deletes a chapter unless any question still references its name.
// It returns false both for an unknown id and for a refused deletion;
// BlockingQuestions gives callers the refusal reason.
func (r *Repository) Remove(chapterID string, questions QuestionIndex) bool {
	r.mu.Lock()
	c, ok := r.chapters[chapterID]
	r.mu.Unlock()
	if !ok {
		return false
	}

	if n := questions.CountByChapter(c.Name); n > 0 {
		r.logger.Warn("chapter deletion refused", "id", chapterID, "name", c.Name, "blocking_questions", n)
		return false
	}

	r.mu.Lock()
	delete(r.chapters, chapterID)
	r.mu.Unlock()
	r.modCount.Add(1)

	r.logger.Info("chapter removed", "id", chapterID, "name", c.Name)
	r.requestFlush()
	return true
}

// BlockingQuestions returns how many questions currently prevent the chapter
// from being deleted. Zero for unknown ids.
func (r *Repository) BlockingQuestions(chapterID string, questions QuestionIndex) int {
	r.mu.RLock()
	c, ok := r.chapters[chapterID]
	r.mu.RUnlock()
	if !ok {
		return 0
	}
	return questions.CountByChapter(c.Name)
}

// ByID returns the chapter with the given id.
func (r *Repository) ByID(chapterID string) (KnowledgeChapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.chapters[chapterID]
	return c, ok
}

// ByName returns the first chapter with an exactly matching name.
func (r *Repository) ByName(name string) (KnowledgeChapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.chapters {
		if c.Name == name {
			return c, true
		}
	}
	return KnowledgeChapter{}, false
}

// Exists reports whether a chapter with the id is present.
func (r *Repository) Exists(chapterID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.chapters[chapterID]
	return ok
}

// All returns every chapter in unspecified order.
func (r *Repository) All() []KnowledgeChapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collectLocked(func(KnowledgeChapter) bool { return true })
}

// Len returns the number of chapters.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.chapters)
}

// NameExists reports whether a chapter with the name already exists within
// the given scope. Empty level/examType arguments leave that axis
// unconstrained; a stored empty value is a wildcard that matches any scope.
func (r *Repository) NameExists(name, level, examType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.chapters {
		if c.Name != name {
			continue
		}
		if level != "" && c.Level != "" && c.Level != level {
			continue
		}
		if examType != "" && c.ExamType != "" && c.ExamType != examType {
			continue
		}
		return true
	}
	return false
}

// ByIdentity returns chapters visible under the identity scope, including
// wildcard-scoped chapters.
func (r *Repository) ByIdentity(level, examType string) []KnowledgeChapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collectLocked(func(c KnowledgeChapter) bool {
		return c.MatchesIdentity(level, examType)
	})
}

// NamesByIdentity returns the deduplicated chapter names visible under the
// identity scope.
func (r *Repository) NamesByIdentity(level, examType string) []string {
	chapters := r.ByIdentity(level, examType)
	seen := make(map[string]struct{}, len(chapters))
	names := make([]string, 0, len(chapters))
	for _, c := range chapters {
		if _, ok := seen[c.Name]; ok {
			continue
		}
		seen[c.Name] = struct{}{}
		names = append(names, c.Name)
	}
	return names
}

// ChildrenOf returns the chapters whose parent is the given id.
func (r *Repository) ChildrenOf(parentID string) []KnowledgeChapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collectLocked(func(c KnowledgeChapter) bool { return c.ParentID == parentID })
}

// Roots returns the chapters without a parent.
func (r *Repository) Roots() []KnowledgeChapter {
	return r.ChildrenOf("")
}

// ModificationCount returns the monotone mutation counter.
func (r *Repository) ModificationCount() int64 {
	return r.modCount.Load()
}

// ReplaceAll swaps the full chapter set in one step without scheduling a
// flush. Used by the persistence layer after a successful decode.
func (r *Repository) ReplaceAll(chapters []KnowledgeChapter) {
	fresh := make(map[string]KnowledgeChapter, len(chapters))
	for _, c := range chapters {
		fresh[c.ID] = c
	}
	r.mu.Lock()
	r.chapters = fresh
	r.mu.Unlock()
	r.modCount.Add(1)
}

func (r *Repository) collectLocked(keep func(KnowledgeChapter) bool) []KnowledgeChapter {
	out := make([]KnowledgeChapter, 0, len(r.chapters))
	for _, c := range r.chapters {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func (r *Repository) requestFlush() {
	r.mu.RLock()
	f := r.flush
	r.mu.RUnlock()
	if f != nil {
		f()
	}
}

func orAny(s string) string {
	if s == "" {
		return "any"
	}
	return s
}
