package store

import (
	"log/slog"

	"github.com/beevik/etree"

	"github.com/lilulei/ruankao/internal/domain/exam"
)

// EncodeIdentity renders the selected exam identity as a
// UserIdentityService document root.
func EncodeIdentity(ctx *exam.IdentityContext) *etree.Element {
	root := etree.NewElement("UserIdentityService")
	root.CreateAttr("selectedExamType", string(ctx.Type()))
	root.CreateAttr("selectedLevel", string(ctx.Level()))
	setBool(root, "hasUserMadeSelection", ctx.Selected())
	root.CreateAttr("defaultChapter", ctx.DefaultChapter())
	return root
}

// DecodeIdentity restores the selected exam identity from a
// UserIdentityService document root, without firing change listeners.
func DecodeIdentity(root *etree.Element, ctx *exam.IdentityContext, logger *slog.Logger) {
	typ, ok := exam.ParseType(root.SelectAttrValue("selectedExamType", ""))
	if !ok {
		logger.Warn("unrecognized stored exam title, using default")
	}
	level, ok := exam.ParseLevel(root.SelectAttrValue("selectedLevel", ""))
	if !ok {
		logger.Warn("unrecognized stored exam level, using default")
	}
	// The pair must agree with the fixed tables; the title wins when the
	// stored level disagrees.
	if typ.Level() != level {
		logger.Warn("stored level does not match stored exam title, deriving from title",
			"stored_level", level, "exam_type", typ)
		level = typ.Level()
	}
	ctx.Restore(level, typ,
		boolAttr(root, "hasUserMadeSelection", false),
		root.SelectAttrValue("defaultChapter", ""))
}
