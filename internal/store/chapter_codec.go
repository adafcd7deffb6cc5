package store

import (
	"log/slog"
	"sort"
	"time"

	"github.com/beevik/etree"

	"github.com/lilulei/ruankao/internal/domain/chapter"
)

// EncodeChapters renders the chapter tree as a KnowledgeChapterService
// document root. Level and examType are written only when the chapter is
// scoped; an absent attribute means the chapter matches any identity.
func EncodeChapters(chapters []chapter.KnowledgeChapter) *etree.Element {
	sort.Slice(chapters, func(i, j int) bool { return chapters[i].ID < chapters[j].ID })

	root := etree.NewElement("KnowledgeChapterService")
	for _, c := range chapters {
		e := root.CreateElement("chapter")
		e.CreateAttr("id", c.ID)
		e.CreateAttr("name", c.Name)
		if c.Level != "" {
			e.CreateAttr("level", c.Level)
		}
		if c.ExamType != "" {
			e.CreateAttr("examType", c.ExamType)
		}
		e.CreateAttr("parentId", c.ParentID)
		setMillis(e, "createdAt", c.CreatedAt)
		setMillis(e, "updatedAt", c.UpdatedAt)
	}
	return root
}

// DecodeChapters reads a KnowledgeChapterService document root back into
// chapters. Records without an id are dropped.
func DecodeChapters(root *etree.Element, logger *slog.Logger) []chapter.KnowledgeChapter {
	now := time.Now()
	var out []chapter.KnowledgeChapter
	for _, e := range root.SelectElements("chapter") {
		id := e.SelectAttrValue("id", "")
		if id == "" {
			logger.Warn("dropping chapter without id")
			continue
		}
		out = append(out, chapter.KnowledgeChapter{
			ID:        id,
			Name:      e.SelectAttrValue("name", ""),
			Level:     e.SelectAttrValue("level", ""),
			ExamType:  e.SelectAttrValue("examType", ""),
			ParentID:  e.SelectAttrValue("parentId", ""),
			CreatedAt: millisAttr(e, "createdAt", now),
			UpdatedAt: millisAttr(e, "updatedAt", now),
		})
	}
	return out
}
