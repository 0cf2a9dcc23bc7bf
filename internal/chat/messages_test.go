package chat

import (
	"testing"
)

func TestMessageStore_AddPreservesOrder(t *testing.T) {
	s := NewMessageStore()
	first := s.Add(RoleUser, "one", StatusSent, "")
	second := s.Add(RoleAssistant, "two", StatusDelivered, "")
	third := s.Add(RoleUser, "three", StatusSent, "")

	msgs := s.Messages()
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	want := []string{first.ID, second.ID, third.ID}
	for i, m := range msgs {
		if m.ID != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], m.ID)
		}
	}
}

func TestMessageStore_UniqueIDs(t *testing.T) {
	s := NewMessageStore()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		m := s.Add(RoleUser, "msg", StatusSent, "")
		if m.ID == "" {
			t.Fatal("empty id")
		}
		if seen[m.ID] {
			t.Fatalf("duplicate id %s", m.ID)
		}
		seen[m.ID] = true
	}
	if m, _ := s.Get(s.Messages()[0].ID); m.Timestamp.IsZero() {
		t.Fatal("timestamp not set")
	}
}

func TestMessageStore_UpdateMergesPatch(t *testing.T) {
	s := NewMessageStore()
	m := s.Add(RoleUser, "hello", StatusSending, "")

	status := StatusSent
	if !s.Update(m.ID, MessagePatch{Status: &status}) {
		t.Fatal("update failed")
	}

	got, ok := s.Get(m.ID)
	if !ok {
		t.Fatal("message gone")
	}
	if got.Status != StatusSent {
		t.Fatalf("expected status sent, got %s", got.Status)
	}
	if got.Content != "hello" {
		t.Fatalf("content changed: %q", got.Content)
	}
}

func TestMessageStore_UpdateUnknownIDNoOp(t *testing.T) {
	s := NewMessageStore()
	s.Add(RoleUser, "hello", StatusSent, "")

	content := "changed"
	if s.Update("nope", MessagePatch{Content: &content}) {
		t.Fatal("expected false for unknown id")
	}
	if s.Messages()[0].Content != "hello" {
		t.Fatal("unrelated message mutated")
	}
}

func TestMessageStore_RemoveNoResurrection(t *testing.T) {
	s := NewMessageStore()
	a := s.Add(RoleUser, "a", StatusSent, "")
	b := s.Add(RoleAssistant, "b", StatusDelivered, "")
	c := s.Add(RoleUser, "c", StatusSent, "")

	if !s.Remove(b.ID) {
		t.Fatal("remove failed")
	}
	if _, ok := s.Get(b.ID); ok {
		t.Fatal("removed message still retrievable")
	}
	if s.Remove(b.ID) {
		t.Fatal("second remove of same id should fail")
	}

	msgs := s.Messages()
	if len(msgs) != 2 || msgs[0].ID != a.ID || msgs[1].ID != c.ID {
		t.Fatalf("order broken after remove: %+v", msgs)
	}

	// A later Add never reuses the removed id.
	d := s.Add(RoleUser, "d", StatusSent, "")
	if d.ID == b.ID {
		t.Fatal("id reused")
	}
}

func TestMessageStore_ClearResetsEverything(t *testing.T) {
	s := NewMessageStore()
	s.Add(RoleUser, "a", StatusSent, "q1")
	s.SetCurrentQuestion("q1")
	s.SetTyping(true)
	s.MarkAnswered("q0")

	s.Clear()

	if s.Len() != 0 {
		t.Fatal("messages not cleared")
	}
	if s.CurrentQuestion() != "" {
		t.Fatal("current question not cleared")
	}
	if s.Typing() {
		t.Fatal("typing not cleared")
	}
	if s.Answered("q0") {
		t.Fatal("answered set not cleared")
	}
}

func TestMessageStore_MarkAnsweredClearsCurrent(t *testing.T) {
	s := NewMessageStore()
	s.SetCurrentQuestion("q1")
	s.MarkAnswered("q1")

	if s.CurrentQuestion() != "" {
		t.Fatal("current question should clear when it is answered")
	}
	if !s.Answered("q1") {
		t.Fatal("q1 not marked answered")
	}

	// Answering a different question leaves the outstanding one alone.
	s.SetCurrentQuestion("q2")
	s.MarkAnswered("q3")
	if s.CurrentQuestion() != "q2" {
		t.Fatal("unrelated answer cleared the current question")
	}
}

func TestMessageStore_TruncateAfterDropsRepliesOnly(t *testing.T) {
	s := NewMessageStore()
	u1 := s.Add(RoleUser, "question", StatusSent, "")
	s.Add(RoleAssistant, "reply 1", StatusDelivered, "")
	s.Add(RoleAssistant, "reply 2", StatusDelivered, "")
	u2 := s.Add(RoleUser, "followup", StatusSent, "")
	a3 := s.Add(RoleAssistant, "reply 3", StatusDelivered, "")

	if !s.TruncateAfter(u1.ID) {
		t.Fatal("truncate failed")
	}

	msgs := s.Messages()
	want := []string{u1.ID, u2.ID, a3.ID}
	if len(msgs) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(msgs))
	}
	for i, m := range msgs {
		if m.ID != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], m.ID)
		}
	}

	// Dropped ids are gone from the index too.
	if _, ok := s.Get(msgs[1].ID); !ok {
		t.Fatal("index out of sync after truncate")
	}
}

func TestMessageStore_TruncateAfterUnknownID(t *testing.T) {
	s := NewMessageStore()
	s.Add(RoleUser, "a", StatusSent, "")
	if s.TruncateAfter("nope") {
		t.Fatal("expected false for unknown id")
	}
	if s.Len() != 1 {
		t.Fatal("messages mutated")
	}
}

func TestMessageStore_RestoreKeepsIDs(t *testing.T) {
	s := NewMessageStore()
	if !s.Restore(Message{ID: "m1", Role: RoleUser, Content: "hi", Status: StatusSent}) {
		t.Fatal("restore failed")
	}
	if !s.Restore(Message{ID: "m2", Role: RoleAssistant, Content: "hello", Status: StatusDelivered}) {
		t.Fatal("restore failed")
	}

	msgs := s.Messages()
	if len(msgs) != 2 || msgs[0].ID != "m1" || msgs[1].ID != "m2" {
		t.Fatalf("restored messages = %+v", msgs)
	}

	if s.Restore(Message{ID: "m1", Role: RoleUser, Content: "dup"}) {
		t.Fatal("duplicate id accepted")
	}
	if s.Restore(Message{Role: RoleUser, Content: "no id"}) {
		t.Fatal("empty id accepted")
	}
	if s.Len() != 2 {
		t.Fatalf("len = %d after rejected restores", s.Len())
	}

	// Restored messages participate in the normal flows.
	content := "edited"
	if !s.Update("m1", MessagePatch{Content: &content}) {
		t.Fatal("update of restored message failed")
	}
	if m, _ := s.Get("m1"); m.Content != "edited" {
		t.Fatalf("content = %q", m.Content)
	}
}
