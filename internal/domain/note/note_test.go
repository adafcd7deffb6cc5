package note_test

import (
	"testing"

	"github.com/lilulei/ruankao/internal/domain/note"
)

func TestSavePreservesCreationTime(t *testing.T) {
	nb := note.NewNotebook(nil)
	first := nb.Save("q1", "remember the OSI layers", nil)
	second := nb.Save("q1", "remember the OSI layers, bottom up", []string{"networking"})

	if nb.Len() != 1 {
		t.Fatalf("expected 1 note after overwrite, got %d", nb.Len())
	}
	if !second.CreatedTime.Equal(first.CreatedTime) {
		t.Error("overwriting must keep the original creation time")
	}
	if second.UpdatedTime.Before(first.UpdatedTime) {
		t.Error("overwriting must move the update time forward")
	}

	got, ok := nb.Get("q1")
	if !ok || got.Content != second.Content {
		t.Errorf("unexpected stored note %+v", got)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "networking" {
		t.Errorf("expected tags to be replaced, got %v", got.Tags)
	}
}

func TestRemove(t *testing.T) {
	nb := note.NewNotebook(nil)
	nb.Save("q1", "short note", nil)

	if !nb.Remove("q1") {
		t.Error("expected Remove to report true for an existing note")
	}
	if nb.Remove("q1") {
		t.Error("expected Remove to report false the second time")
	}
	if nb.Contains("q1") {
		t.Error("removed note must be gone")
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	nb := note.NewNotebook(nil)
	nb.Save("q1", "TCP handshake has three steps", nil)
	nb.Save("q2", "UDP is connectionless", nil)

	if got := nb.Search("tcp"); len(got) != 1 || got[0].QuestionID != "q1" {
		t.Errorf("unexpected search result %v", got)
	}
	if got := nb.Search(""); len(got) != 2 {
		t.Errorf("empty query must match everything, got %d", len(got))
	}
	if got := nb.Search("quic"); len(got) != 0 {
		t.Errorf("expected no matches, got %d", len(got))
	}
}

func TestByTag(t *testing.T) {
	nb := note.NewNotebook(nil)
	nb.Save("q1", "a", []string{"Networking", "review"})
	nb.Save("q2", "b", []string{"algorithms"})

	if got := nb.ByTag("networking"); len(got) != 1 || got[0].QuestionID != "q1" {
		t.Errorf("tag lookup must ignore case, got %v", got)
	}
	if got := nb.ByTag("missing"); len(got) != 0 {
		t.Errorf("expected no matches, got %d", len(got))
	}
}

func TestOnMutateFires(t *testing.T) {
	nb := note.NewNotebook(nil)
	calls := 0
	nb.OnMutate(func() { calls++ })

	nb.Save("q1", "a", nil)
	nb.Remove("q1")
	nb.Remove("q1") // gone already, no flush

	if calls != 2 {
		t.Errorf("expected 2 flushes, got %d", calls)
	}
}

func TestReplaceAllDoesNotFlush(t *testing.T) {
	nb := note.NewNotebook(nil)
	calls := 0
	nb.OnMutate(func() { calls++ })

	nb.ReplaceAll([]note.Note{{QuestionID: "q1", Content: "restored"}})

	if calls != 0 {
		t.Errorf("ReplaceAll must not flush, got %d calls", calls)
	}
	if !nb.Contains("q1") {
		t.Error("restored note missing")
	}
}
