package generate

import "github.com/voicedesk/voicedesk/engine/domain"

// History is a bounded, ordered conversation log. The cap is enforced
// immediately after every append: once full, the oldest turns are dropped
// first and turns are never reordered.
type History struct {
	max   int
	turns []domain.Turn
}

// NewHistory creates a History holding at most max turns.
func NewHistory(max int) *History {
	if max < 1 {
		max = 1
	}
	return &History{max: max}
}

// Append adds a turn, evicting the oldest turns beyond the cap.
func (h *History) Append(t domain.Turn) {
	h.turns = append(h.turns, t)
	if len(h.turns) > h.max {
		h.turns = h.turns[len(h.turns)-h.max:]
	}
}

// Turns returns a copy of the history, oldest first.
func (h *History) Turns() []domain.Turn {
	out := make([]domain.Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Len reports the number of stored turns.
func (h *History) Len() int { return len(h.turns) }

// Clear discards all turns.
func (h *History) Clear() { h.turns = nil }
