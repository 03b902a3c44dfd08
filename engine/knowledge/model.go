package knowledge

// SearchResult is a single nearest-neighbor hit. Distance is 1 minus the
// cosine similarity score, so lower means more similar and a search call
// returns results in non-decreasing distance order.
type SearchResult struct {
	DocumentText string  `json:"document_text"`
	Question     string  `json:"question"`
	Answer       string  `json:"answer"`
	Category     string  `json:"category"`
	Source       string  `json:"source"`
	Distance     float32 `json:"distance"`
}

// Stats describes the indexed corpus.
type Stats struct {
	TotalDocuments int            `json:"total_documents"`
	Categories     map[string]int `json:"categories"`
	Collection     string         `json:"collection"`
}
