package question

import (
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/lilulei/ruankao/internal/domain/exam"
)

// FlushFunc asks the persistence layer to schedule an asynchronous save.
// It must never block.
type FlushFunc func()

// Repository owns the question bank. Reads iterate the backing map while the
// mock-exam timer goroutine may mutate through the engine, so every access
// is mutex-guarded.
type Repository struct {
	mu        sync.RWMutex
	questions map[string]Question
	modCount  atomic.Int64
	flush     FlushFunc
	logger    *slog.Logger
}

// NewRepository creates an empty question repository.
func NewRepository(logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		questions: make(map[string]Question),
		logger:    logger,
	}
}

// OnMutate registers the flush hook invoked after every mutation.
func (r *Repository) OnMutate(f FlushFunc) {
	r.mu.Lock()
	r.flush = f
	r.mu.Unlock()
}

// Add inserts a question, silently overwriting any existing question with
// the same id. Id uniqueness is caller-managed.
func (r *Repository) Add(q Question) {
	r.mu.Lock()
	r.questions[q.ID] = q
	total := len(r.questions)
	r.mu.Unlock()
	r.modCount.Add(1)

	r.logger.Info("question added", "id", q.ID, "difficulty", q.Difficulty, "total", total)
	r.requestFlush()
}

// Update replaces the question with the same id. It is a no-op when the id
// is unknown; callers must check Exists first if they care.
func (r *Repository) Update(q Question) {
	r.mu.Lock()
	_, ok := r.questions[q.ID]
	if ok {
		r.questions[q.ID] = q
	}
	r.mu.Unlock()

	if !ok {
		r.logger.Warn("update of unknown question ignored", "id", q.ID)
		return
	}
	r.modCount.Add(1)
	r.logger.Info("question updated", "id", q.ID)
	r.requestFlush()
}

// Remove deletes a question by id and reports whether it existed.
func (r *Repository) Remove(id string) bool {
	r.mu.Lock()
	_, ok := r.questions[id]
	if ok {
		delete(r.questions, id)
	}
	r.mu.Unlock()

	if !ok {
		r.logger.Warn("remove of unknown question ignored", "id", id)
		return false
	}
	r.modCount.Add(1)
	r.logger.Info("question removed", "id", id)
	r.requestFlush()
	return true
}

// Exists reports whether a question with the id is present.
func (r *Repository) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.questions[id]
	return ok
}

// ByID returns the question with the given id.
func (r *Repository) ByID(id string) (Question, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.questions[id]
	return q, ok
}

// All returns every question in unspecified order.
func (r *Repository) All() []Question {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collectLocked(func(Question) bool { return true })
}

// Len returns the number of questions in the bank.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.questions)
}

// ByDifficulty returns all questions with the given difficulty.
func (r *Repository) ByDifficulty(d Difficulty) []Question {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collectLocked(func(q Question) bool { return q.Difficulty == d })
}

// ByExamType returns all questions for the given exam title.
func (r *Repository) ByExamType(t exam.Type) []Question {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collectLocked(func(q Question) bool { return q.ExamType == t })
}

// ByIdentity returns questions whose level and type both match exactly.
// Unlike chapter scoping there is no wildcard here: a question always
// carries a concrete identity.
func (r *Repository) ByIdentity(level exam.Level, t exam.Type) []Question {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collectLocked(func(q Question) bool {
		return q.ExamLevel == level && q.ExamType == t
	})
}

// ByIdentityAndChapter narrows ByIdentity to one chapter, matching the
// chapter name case-insensitively.
func (r *Repository) ByIdentityAndChapter(level exam.Level, t exam.Type, chapter string) []Question {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collectLocked(func(q Question) bool {
		return q.ExamLevel == level && q.ExamType == t &&
			q.Chapter != "" && strings.EqualFold(q.Chapter, chapter)
	})
}

// CountByChapter returns how many questions reference the chapter name,
// case-insensitively. Used by the chapter repository's deletion guard.
func (r *Repository) CountByChapter(name string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, q := range r.questions {
		if q.Chapter != "" && strings.EqualFold(q.Chapter, name) {
			n++
		}
	}
	return n
}

// RandomSample returns n distinct questions drawn without replacement. When
// the bank holds fewer than n questions the whole shuffled bank is returned.
func (r *Repository) RandomSample(n int) []Question {
	return sample(r.All(), n)
}

// RandomSampleByDifficulty is RandomSample restricted to one difficulty.
func (r *Repository) RandomSampleByDifficulty(d Difficulty, n int) []Question {
	return sample(r.ByDifficulty(d), n)
}

// ModificationCount returns the monotone mutation counter the persistence
// layer uses to detect dirty state.
func (r *Repository) ModificationCount() int64 {
	return r.modCount.Load()
}

// ReplaceAll swaps the entire bank in one step. Used by the persistence
// layer after a successful decode; it does not schedule a flush.
func (r *Repository) ReplaceAll(questions []Question) {
	fresh := make(map[string]Question, len(questions))
	for _, q := range questions {
		fresh[q.ID] = q
	}
	r.mu.Lock()
	r.questions = fresh
	r.mu.Unlock()
	r.modCount.Add(1)
}

func (r *Repository) collectLocked(keep func(Question) bool) []Question {
	out := make([]Question, 0, len(r.questions))
	for _, q := range r.questions {
		if keep(q) {
			out = append(out, q)
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

func sample(pool []Question, n int) []Question {
	if n <= 0 {
		return nil
	}
	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if n < len(pool) {
		return pool[:n]
	}
	return pool
}
