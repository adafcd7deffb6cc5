package exam_test

import (
	"testing"

	"github.com/lilulei/ruankao/internal/domain/exam"
)

func TestEveryTypeBelongsToExactlyOneLevel(t *testing.T) {
	seen := make(map[exam.Type]exam.Level)
	for _, l := range exam.Levels() {
		for _, typ := range exam.TypesForLevel(l) {
			if prev, ok := seen[typ]; ok {
				t.Errorf("type %s appears under %s and %s", typ, prev, l)
			}
			seen[typ] = l
			if typ.Level() != l {
				t.Errorf("type %s: Level() = %s, listed under %s", typ, typ.Level(), l)
			}
		}
	}
	if len(seen) != 27 {
		t.Errorf("expected 27 exam titles, got %d", len(seen))
	}
}

func TestLevelTypeCounts(t *testing.T) {
	counts := map[exam.Level]int{
		exam.LevelSenior:       5,
		exam.LevelIntermediate: 15,
		exam.LevelJunior:       7,
	}
	for l, want := range counts {
		if got := len(exam.TypesForLevel(l)); got != want {
			t.Errorf("level %s: expected %d titles, got %d", l, want, got)
		}
	}
}

func TestDefaultTypeForLevel(t *testing.T) {
	cases := map[exam.Level]exam.Type{
		exam.LevelSenior:       exam.TypeProjectManager,
		exam.LevelIntermediate: exam.TypeSoftwareDesigner,
		exam.LevelJunior:       exam.TypeProgrammer,
	}
	for l, want := range cases {
		if got := exam.DefaultTypeForLevel(l); got != want {
			t.Errorf("level %s: expected default %s, got %s", l, want, got)
		}
		if exam.DefaultTypeForLevel(l).Level() != l {
			t.Errorf("default type for %s belongs to another level", l)
		}
	}
}

func TestEveryTypeHasDisplayNameAndChapter(t *testing.T) {
	for _, typ := range exam.AllTypes() {
		if typ.DisplayName() == "" {
			t.Errorf("type %s has no display name", typ)
		}
		if typ.DefaultChapter() == "" {
			t.Errorf("type %s has no default chapter", typ)
		}
	}
}

func TestParseType(t *testing.T) {
	cases := []struct {
		raw  string
		want exam.Type
		ok   bool
	}{
		{"Information Systems Project Manager", exam.TypeProjectManager, true},
		{"SOFTWARE_DESIGNER", exam.TypeSoftwareDesigner, true},
		{"software_designer", exam.TypeSoftwareDesigner, true},
		{"", exam.TypeProjectManager, false},
		{"No Such Exam", exam.TypeProjectManager, false},
	}
	for _, tc := range cases {
		got, ok := exam.ParseType(tc.raw)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseType(%q) = (%s, %v), expected (%s, %v)", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if got, ok := exam.ParseLevel("Intermediate"); !ok || got != exam.LevelIntermediate {
		t.Errorf("ParseLevel(Intermediate) = (%s, %v)", got, ok)
	}
	if got, ok := exam.ParseLevel("bogus"); ok || got != exam.LevelSenior {
		t.Errorf("expected fallback to Senior, got (%s, %v)", got, ok)
	}
}

func TestIdentityContextDefaults(t *testing.T) {
	ctx := exam.NewIdentityContext()

	if ctx.Level() != exam.LevelSenior {
		t.Errorf("expected default level Senior, got %s", ctx.Level())
	}
	if ctx.Type() != exam.TypeProjectManager {
		t.Errorf("expected default type ProjectManager, got %s", ctx.Type())
	}
	if ctx.Selected() {
		t.Error("fresh context should not count as selected")
	}
	if ctx.DefaultChapter() != exam.TypeProjectManager.DefaultChapter() {
		t.Errorf("unexpected default chapter %q", ctx.DefaultChapter())
	}
}

func TestSetTypeDerivesLevel(t *testing.T) {
	ctx := exam.NewIdentityContext()
	ctx.SetType(exam.TypeNetworkEngineer)

	if ctx.Level() != exam.LevelIntermediate {
		t.Errorf("expected derived level Intermediate, got %s", ctx.Level())
	}
	if !ctx.Selected() {
		t.Error("explicit choice should mark the context selected")
	}
	if ctx.DefaultChapter() != exam.TypeNetworkEngineer.DefaultChapter() {
		t.Errorf("default chapter not derived: %q", ctx.DefaultChapter())
	}
}

func TestSetLevelDerivesDefaultType(t *testing.T) {
	ctx := exam.NewIdentityContext()
	ctx.SetLevel(exam.LevelJunior)

	if ctx.Type() != exam.TypeProgrammer {
		t.Errorf("expected derived type Programmer, got %s", ctx.Type())
	}
}

func TestIdentityListeners(t *testing.T) {
	ctx := exam.NewIdentityContext()
	var got []exam.Identity
	ctx.AddListener(func(id exam.Identity) { got = append(got, id) })

	ctx.SetType(exam.TypeSystemAnalyst)
	ctx.SetLevel(exam.LevelIntermediate)

	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	if got[0] != (exam.Identity{Level: exam.LevelSenior, Type: exam.TypeSystemAnalyst}) {
		t.Errorf("unexpected first notification %v", got[0])
	}
	if got[1].Type != exam.TypeSoftwareDesigner {
		t.Errorf("unexpected second notification %v", got[1])
	}
}

func TestRestoreDoesNotNotify(t *testing.T) {
	ctx := exam.NewIdentityContext()
	calls := 0
	ctx.AddListener(func(exam.Identity) { calls++ })

	ctx.Restore(exam.LevelJunior, exam.TypeWebDesigner, true, "")

	if calls != 0 {
		t.Errorf("Restore should not notify, got %d calls", calls)
	}
	if !ctx.Selected() {
		t.Error("Restore should keep the stored selected flag")
	}
	if ctx.DefaultChapter() != exam.TypeWebDesigner.DefaultChapter() {
		t.Errorf("empty stored chapter should fall back to the type default, got %q", ctx.DefaultChapter())
	}
}
