package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/voicedesk/voicedesk/engine/domain"
)

// LoadFAQs reads a JSON array of documents from path and ingests it.
// Returns the number of documents stored.
func (s *Store) LoadFAQs(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("knowledge: read %s: %w", path, err)
	}
	var docs []domain.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return 0, fmt.Errorf("%w: parse %s: %v", domain.ErrIngest, path, err)
	}
	return s.Ingest(ctx, docs)
}
