package note

import (
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Notebook holds the per-question notes.
type Notebook struct {
	mu     sync.RWMutex
	notes  map[string]Note
	flush  func()
	logger *slog.Logger
}

// NewNotebook creates an empty notebook.
func NewNotebook(logger *slog.Logger) *Notebook {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notebook{
		notes:  make(map[string]Note),
		logger: logger,
	}
}

// OnMutate registers the flush hook invoked after every mutation.
func (n *Notebook) OnMutate(f func()) {
	n.mu.Lock()
	n.flush = f
	n.mu.Unlock()
}

// Save creates or overwrites the note for a question. The creation time of
// an existing note is preserved; the update time is always stamped now.
func (n *Notebook) Save(questionID, content string, tags []string) Note {
	now := time.Now()
	n.mu.Lock()
	existing, ok := n.notes[questionID]
	created := now
	if ok {
		created = existing.CreatedTime
	}
	saved := Note{
		QuestionID:  questionID,
		Content:     content,
		Tags:        tags,
		CreatedTime: created,
		UpdatedTime: now,
	}
	n.notes[questionID] = saved
	f := n.flush
	n.mu.Unlock()

	n.logger.Info("note saved", "question_id", questionID, "new", !ok)
	if f != nil {
		f()
	}
	return saved
}

// Remove deletes the note for a question, reporting whether one existed.
func (n *Notebook) Remove(questionID string) bool {
	n.mu.Lock()
	_, ok := n.notes[questionID]
	delete(n.notes, questionID)
	f := n.flush
	n.mu.Unlock()
	if !ok {
		return false
	}

	n.logger.Info("note removed", "question_id", questionID)
	if f != nil {
		f()
	}
	return true
}

// Get returns the note for a question.
func (n *Notebook) Get(questionID string) (Note, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	note, ok := n.notes[questionID]
	return note, ok
}

// Contains reports whether a question has a note.
func (n *Notebook) Contains(questionID string) bool {
	_, ok := n.Get(questionID)
	return ok
}

// All returns every note in unspecified order.
func (n *Notebook) All() []Note {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]Note, 0, len(n.notes))
	for _, note := range n.notes {
		out = append(out, note)
	}
	return out
}

// Search returns the notes whose content contains the query,
// case-insensitively.
func (n *Notebook) Search(query string) []Note {
	q := strings.ToLower(query)
	n.mu.RLock()
	defer n.mu.RUnlock()
	var out []Note
	for _, note := range n.notes {
		if strings.Contains(strings.ToLower(note.Content), q) {
			out = append(out, note)
		}
	}
	return out
}

// ByTag returns the notes carrying the given tag, compared
// case-insensitively.
func (n *Notebook) ByTag(tag string) []Note {
	n.mu.RLock()
	defer n.mu.RUnlock()
	var out []Note
	for _, note := range n.notes {
		for _, t := range note.Tags {
			if strings.EqualFold(t, tag) {
				out = append(out, note)
				break
			}
		}
	}
	return out
}

// Len returns the number of notes.
func (n *Notebook) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.notes)
}

// ReplaceAll swaps the full note set without flushing. Used by the
// persistence layer after a successful decode.
func (n *Notebook) ReplaceAll(notes []Note) {
	fresh := make(map[string]Note, len(notes))
	for _, note := range notes {
		fresh[note.QuestionID] = note
	}
	n.mu.Lock()
	n.notes = fresh
	n.mu.Unlock()
}
