package chapter

import (
	"time"

	"github.com/lilulei/ruankao/internal/id"
)

// KnowledgeChapter groups questions under a named topic. Level and ExamType
// scope the chapter to an identity; an empty value is a wildcard that
// matches any level or exam title during filtering.
type KnowledgeChapter struct {
	ID        string
	Name      string
	Level     string // level display name, "" = any level
	ExamType  string // exam title display name, "" = any title
	ParentID  string // "" = root chapter
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New creates a chapter with a generated id and both timestamps set to now.
func New(name, level, examType string) KnowledgeChapter {
	now := time.Now()
	return KnowledgeChapter{
		ID:        id.GenerateID(),
		Name:      name,
		Level:     level,
		ExamType:  examType,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MatchesIdentity reports whether the chapter is visible under the given
// identity scope, treating empty chapter fields as wildcards.
func (c KnowledgeChapter) MatchesIdentity(level, examType string) bool {
	if c.Level != "" && c.Level != level {
		return false
	}
	if c.ExamType != "" && c.ExamType != examType {
		return false
	}
	return true
}
