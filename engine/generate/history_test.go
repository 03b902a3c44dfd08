package generate

import (
	"fmt"
	"testing"

	"github.com/voicedesk/voicedesk/engine/domain"
)

func TestHistory_CapNeverExceeded(t *testing.T) {
	h := NewHistory(6)
	for i := 0; i < 50; i++ {
		h.Append(domain.Turn{Role: domain.RoleUser, Text: fmt.Sprintf("msg %d", i)})
		if h.Len() > 6 {
			t.Fatalf("history length %d exceeds cap after append %d", h.Len(), i)
		}
	}
}

func TestHistory_FIFOEviction(t *testing.T) {
	h := NewHistory(3)
	for i := 0; i < 10; i++ {
		h.Append(domain.Turn{Text: fmt.Sprintf("msg %d", i)})
	}
	turns := h.Turns()
	if len(turns) != 3 {
		t.Fatalf("len = %d, want 3", len(turns))
	}
	// The survivors are the most recent three, oldest first.
	for i, want := range []string{"msg 7", "msg 8", "msg 9"} {
		if turns[i].Text != want {
			t.Errorf("turns[%d] = %q, want %q", i, turns[i].Text, want)
		}
	}
}

func TestHistory_TurnsReturnsCopy(t *testing.T) {
	h := NewHistory(5)
	h.Append(domain.Turn{Text: "original"})
	turns := h.Turns()
	turns[0].Text = "mutated"
	if h.Turns()[0].Text != "original" {
		t.Error("Turns must return a copy, not the backing slice")
	}
}

func TestHistory_Clear(t *testing.T) {
	h := NewHistory(5)
	h.Append(domain.Turn{Text: "a"})
	h.Append(domain.Turn{Text: "b"})
	h.Clear()
	if h.Len() != 0 {
		t.Errorf("len after clear = %d, want 0", h.Len())
	}
}
