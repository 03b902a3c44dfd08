// Package domain holds the core types and error taxonomy shared by the
// knowledge store, response generator, speech synthesizer, and front ends.
package domain

import "time"

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Document is a single FAQ entry. Documents are immutable once ingested;
// re-ingesting the same ID overwrites the stored copy.
type Document struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
}

// Turn is one message in a conversation history.
type Turn struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
