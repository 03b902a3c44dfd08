package domain

import "strings"

// ValidateDocument checks a Document before ingestion. Every field is
// required; the ID doubles as the vector-store point identity.
func ValidateDocument(d Document) error {
	switch {
	case strings.TrimSpace(d.ID) == "":
		return &DocumentError{DocID: d.ID, Field: "id"}
	case strings.TrimSpace(d.Question) == "":
		return &DocumentError{DocID: d.ID, Field: "question"}
	case strings.TrimSpace(d.Answer) == "":
		return &DocumentError{DocID: d.ID, Field: "answer"}
	case strings.TrimSpace(d.Category) == "":
		return &DocumentError{DocID: d.ID, Field: "category"}
	}
	return nil
}
