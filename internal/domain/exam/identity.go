package exam

import "sync"

// IdentityListener is notified after the selected identity changes.
type IdentityListener func(Identity)

// IdentityContext holds the learner's selected exam identity. Selecting a
// type derives its level, selecting a level derives the level's default
// type, so the pair can never disagree with the fixed tables. The zero of
// Selected distinguishes the initial defaults from an explicit choice.
type IdentityContext struct {
	mu             sync.RWMutex
	level          Level
	typ            Type
	selected       bool
	defaultChapter string
	listeners      []IdentityListener
}

// NewIdentityContext returns a context with the historical defaults
// (Senior / Information Systems Project Manager) and Selected() == false.
func NewIdentityContext() *IdentityContext {
	return &IdentityContext{
		level:          LevelSenior,
		typ:            TypeProjectManager,
		defaultChapter: TypeProjectManager.DefaultChapter(),
	}
}

// AddListener registers a listener invoked synchronously on every change.
func (c *IdentityContext) AddListener(l IdentityListener) {
	c.mu.Lock()
	c.listeners = append(c.listeners, l)
	c.mu.Unlock()
}

// SetType selects an exam title, deriving the matching level and default
// chapter, and notifies listeners.
func (c *IdentityContext) SetType(t Type) {
	c.mu.Lock()
	c.typ = t
	c.level = t.Level()
	c.defaultChapter = t.DefaultChapter()
	c.selected = true
	listeners, id := c.snapshotLocked()
	c.mu.Unlock()

	for _, l := range listeners {
		l(id)
	}
}

// SetLevel selects a level, deriving the level's default exam title, and
// notifies listeners.
func (c *IdentityContext) SetLevel(l Level) {
	c.mu.Lock()
	c.level = l
	c.typ = DefaultTypeForLevel(l)
	c.defaultChapter = c.typ.DefaultChapter()
	c.selected = true
	listeners, id := c.snapshotLocked()
	c.mu.Unlock()

	for _, ln := range listeners {
		ln(id)
	}
}

// Restore sets the stored state without marking a fresh selection or
// notifying listeners. Used by the persistence layer at load time.
func (c *IdentityContext) Restore(level Level, t Type, selected bool, defaultChapter string) {
	c.mu.Lock()
	c.level = level
	c.typ = t
	c.selected = selected
	if defaultChapter == "" {
		defaultChapter = t.DefaultChapter()
	}
	c.defaultChapter = defaultChapter
	c.mu.Unlock()
}

func (c *IdentityContext) snapshotLocked() ([]IdentityListener, Identity) {
	listeners := make([]IdentityListener, len(c.listeners))
	copy(listeners, c.listeners)
	return listeners, Identity{Level: c.level, Type: c.typ}
}

// Level returns the selected (or default) level.
func (c *IdentityContext) Level() Level {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.level
}

// Type returns the selected (or default) exam title.
func (c *IdentityContext) Type() Type {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.typ
}

// Identity returns the current (level, type) pair.
func (c *IdentityContext) Identity() Identity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Identity{Level: c.level, Type: c.typ}
}

// Selected reports whether the learner has made an explicit choice.
func (c *IdentityContext) Selected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selected
}

// DefaultChapter returns the default chapter for the selected exam title.
func (c *IdentityContext) DefaultChapter() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaultChapter
}
