package store

import (
	"log/slog"
	"sort"
	"time"

	"github.com/beevik/etree"

	"github.com/lilulei/ruankao/internal/domain/note"
)

// EncodeNotes renders the notebook as a QuestionNoteService document root.
func EncodeNotes(notes []note.Note) *etree.Element {
	sort.Slice(notes, func(i, j int) bool { return notes[i].QuestionID < notes[j].QuestionID })

	root := etree.NewElement("QuestionNoteService")
	for _, n := range notes {
		e := root.CreateElement("note")
		e.CreateAttr("questionId", n.QuestionID)
		e.CreateAttr("note", n.Content)
		setMillis(e, "createdAt", n.CreatedTime)
		setMillis(e, "updatedAt", n.UpdatedTime)
		tags := e.CreateElement("tags")
		for _, t := range n.Tags {
			tags.CreateElement("tag").SetText(t)
		}
	}
	return root
}

// DecodeNotes reads a QuestionNoteService document root back into notes.
// Records without a question id are dropped.
func DecodeNotes(root *etree.Element, logger *slog.Logger) []note.Note {
	now := time.Now()
	var out []note.Note
	for _, e := range root.SelectElements("note") {
		id := e.SelectAttrValue("questionId", "")
		if id == "" {
			logger.Warn("dropping note without question id")
			continue
		}
		var tags []string
		if te := e.SelectElement("tags"); te != nil {
			for _, tag := range te.SelectElements("tag") {
				if tag.Text() != "" {
					tags = append(tags, tag.Text())
				}
			}
		}
		out = append(out, note.Note{
			QuestionID:  id,
			Content:     e.SelectAttrValue("note", ""),
			Tags:        tags,
			CreatedTime: millisAttr(e, "createdAt", now),
			UpdatedTime: millisAttr(e, "updatedAt", now),
		})
	}
	return out
}
