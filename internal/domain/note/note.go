package note

import "time"

// Note is a learner-written remark attached to a question, keyed by the
// question id. One note per question; saving again overwrites the content
// and bumps the update time.
type Note struct {
	QuestionID  string
	Content     string
	Tags        []string
	CreatedTime time.Time
	UpdatedTime time.Time
}
