package chat

import (
	"strings"
	"testing"
)

func TestSessionStore_CreateAndActivate(t *testing.T) {
	s := NewSessionStore()
	first := s.Create()
	second := s.Create()

	if first == second {
		t.Fatal("session ids collided")
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", s.Len())
	}

	if !s.SetActive(second) {
		t.Fatal("activate failed")
	}
	if s.ActiveID() != second {
		t.Fatalf("active = %s, want %s", s.ActiveID(), second)
	}
}

func TestSessionStore_SetActiveUnknownID(t *testing.T) {
	s := NewSessionStore()
	id := s.Create()
	s.SetActive(id)

	if s.SetActive("nope") {
		t.Fatal("expected false for unknown id")
	}
	if s.ActiveID() != id {
		t.Fatal("active session changed by failed activation")
	}
}

func TestSessionStore_UpdatePreviewTruncates(t *testing.T) {
	s := NewSessionStore()
	id := s.Create()

	long := strings.Repeat("я", 200)
	if !s.UpdatePreview(id, long) {
		t.Fatal("update failed")
	}

	sess, _ := s.Get(id)
	runes := []rune(sess.Preview)
	if len(runes) != previewLimit {
		t.Fatalf("preview length = %d runes, want %d", len(runes), previewLimit)
	}
	if runes[len(runes)-1] != '…' {
		t.Fatal("expected ellipsis suffix")
	}
}

func TestSessionStore_UpdateUnknownIDNoOp(t *testing.T) {
	s := NewSessionStore()
	if s.UpdatePreview("nope", "text") {
		t.Fatal("preview update of unknown id should be a no-op")
	}
	if s.UpdateMessageCount("nope", 5) {
		t.Fatal("count update of unknown id should be a no-op")
	}
}

func TestSessionStore_RestoreKeepsOrder(t *testing.T) {
	s := NewSessionStore()
	s.Restore(Session{ID: "s1", Preview: "hello", MessageCount: 3})
	s.Restore(Session{ID: "s2", Preview: "world", MessageCount: 1})
	s.Restore(Session{ID: "s1", Preview: "updated", MessageCount: 4})

	all := s.Sessions()
	if len(all) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(all))
	}
	if all[0].ID != "s1" || all[0].Preview != "updated" {
		t.Fatalf("restore did not update in place: %+v", all[0])
	}
}
