package history

import (
	"fmt"
	"testing"

	"palaver/internal/models"
)

func TestNew(t *testing.T) {
	h := New(10)
	if h == nil {
		t.Fatal("New returned nil")
	}
	if h.limit != 10 {
		t.Errorf("expected limit 10, got %d", h.limit)
	}
	if h.Len() != 0 {
		t.Errorf("expected empty history, got %d", h.Len())
	}
}

func TestNew_DefaultLimit(t *testing.T) {
	h := New(0)
	if h.limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, h.limit)
	}
}

func TestHistory_Append_NoWrap(t *testing.T) {
	h := New(10)

	for i := 0; i < 5; i++ {
		h.Append(models.Message{From: "alice", Text: fmt.Sprintf("msg %d", i)})
	}

	if h.Len() != 5 {
		t.Errorf("expected 5 messages, got %d", h.Len())
	}

	last := h.Last(2)
	if len(last) != 2 {
		t.Errorf("expected 2 messages, got %d", len(last))
	}
	if last[1].Text != "msg 4" {
		t.Errorf("expected last msg 'msg 4', got '%s'", last[1].Text)
	}
}

func TestHistory_Append_Wrap(t *testing.T) {
	h := New(3)

	for i := 0; i < 3; i++ {
		h.Append(models.Message{From: "alice", Text: fmt.Sprintf("msg %d", i)})
	}
	h.Append(models.Message{From: "alice", Text: "msg 3"})

	if h.Len() != 3 {
		t.Errorf("expected 3 retained messages, got %d", h.Len())
	}

	all := h.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(all))
	}
	// msg 0 fell off the ring.
	if all[0].Text != "msg 1" || all[2].Text != "msg 3" {
		t.Errorf("unexpected order after wrap: %q .. %q", all[0].Text, all[2].Text)
	}
}

func TestHistory_OrderPreserved(t *testing.T) {
	h := New(100)

	for i := 0; i < 50; i++ {
		h.Append(models.Message{From: "bob", Text: fmt.Sprintf("msg %d", i)})
	}

	all := h.All()
	for i, msg := range all {
		want := fmt.Sprintf("msg %d", i)
		if msg.Text != want {
			t.Fatalf("position %d: expected %q, got %q", i, want, msg.Text)
		}
	}
}

func TestHistory_Range(t *testing.T) {
	h := New(5)

	for i := 0; i < 8; i++ {
		h.Append(models.Message{Text: fmt.Sprintf("msg %d", i)})
	}

	// Ring retains seq 3..7. Asking for 0..5 clamps to 3..5.
	got := h.Range(0, 5)
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].Text != "msg 3" || got[1].Text != "msg 4" {
		t.Errorf("unexpected range contents: %q, %q", got[0].Text, got[1].Text)
	}

	if got := h.Range(7, 3); len(got) != 0 {
		t.Errorf("expected empty result for inverted range, got %d", len(got))
	}
}

func TestHistory_Last_Empty(t *testing.T) {
	h := New(5)
	if got := h.Last(3); len(got) != 0 {
		t.Errorf("expected empty result, got %d", len(got))
	}
}
