// Package knowledge wraps the Qdrant vector index that backs the FAQ
// knowledge base: ingestion, nearest-neighbor search, and corpus stats.
package knowledge

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/voicedesk/voicedesk/engine/domain"
)

// Embedder turns text into an embedding vector. Satisfied by
// OpenAIEmbedder and by deterministic fakes in tests.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Store is the sole owner of all Qdrant operations.
type Store struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	collection  string
	dims        int
	embed       Embedder
}

// New creates a Store connected to Qdrant at the given gRPC address.
func New(addr, collection string, dims int, embed Embedder) (*Store, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("knowledge: dial qdrant %s: %w", addr, err)
	}
	return &Store{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
		dims:        dims,
		embed:       embed,
	}, nil
}

// Close closes the underlying gRPC connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// EnsureCollection creates the collection if it doesn't exist.
func (s *Store) EnsureCollection(ctx context.Context) error {
	list, err := s.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("%w: list collections: %v", domain.ErrStoreUnavailable, err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == s.collection {
			return nil
		}
	}
	return s.createCollection(ctx)
}

func (s *Store) createCollection(ctx context.Context) error {
	_, err := s.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(s.dims),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: create collection %s: %v", domain.ErrStoreUnavailable, s.collection, err)
	}
	return nil
}

// Reset drops and recreates the collection.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.collections.Delete(ctx, &pb.DeleteCollection{CollectionName: s.collection})
	if err != nil {
		return fmt.Errorf("%w: delete collection %s: %v", domain.ErrStoreUnavailable, s.collection, err)
	}
	return s.createCollection(ctx)
}

// Ingest validates, embeds, and upserts documents. A document whose ID
// was seen before overwrites the stored copy (deterministic point IDs).
// Returns the number of documents stored.
func (s *Store) Ingest(ctx context.Context, docs []domain.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	for _, d := range docs {
		if err := domain.ValidateDocument(d); err != nil {
			return 0, err
		}
	}

	points := make([]*pb.PointStruct, len(docs))
	for i, d := range docs {
		vec, err := s.embed.Embed(ctx, DocumentText(d))
		if err != nil {
			return 0, fmt.Errorf("%w: embed document %s: %v", domain.ErrStoreUnavailable, d.ID, err)
		}
		points[i] = &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{Uuid: PointID(d.ID)},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: vec},
				},
			},
			Payload: map[string]*pb.Value{
				"question": stringValue(d.Question),
				"answer":   stringValue(d.Answer),
				"category": stringValue(d.Category),
				"source":   stringValue("faqs.json"),
			},
		}
	}

	wait := true
	_, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: upsert %d points: %v", domain.ErrStoreUnavailable, len(points), err)
	}
	return len(points), nil
}

// Search embeds the query and performs k-NN search. An empty store yields
// an empty slice, not an error.
func (s *Store) Search(ctx context.Context, query string, topK int) ([]SearchResult, error) {
	vec, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", domain.ErrStoreUnavailable, err)
	}

	resp, err := s.points.Search(ctx, &pb.SearchPoints{
		CollectionName: s.collection,
		Vector:         vec,
		Limit:          uint64(topK),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", domain.ErrStoreUnavailable, err)
	}

	results := make([]SearchResult, len(resp.GetResult()))
	for i, r := range resp.GetResult() {
		// Qdrant returns cosine similarity descending; expose it as a
		// distance so lower-is-better ordering holds for callers.
		sr := SearchResult{Distance: 1 - r.GetScore()}
		for k, val := range r.GetPayload() {
			v := val.GetStringValue()
			switch k {
			case "question":
				sr.Question = v
			case "answer":
				sr.Answer = v
			case "category":
				sr.Category = v
			case "source":
				sr.Source = v
			}
		}
		sr.DocumentText = fmt.Sprintf("Question: %s\nAnswer: %s", sr.Question, sr.Answer)
		results[i] = sr
	}
	return results, nil
}

// Stats returns the exact document count and the per-category breakdown.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	exact := true
	count, err := s.points.Count(ctx, &pb.CountPoints{
		CollectionName: s.collection,
		Exact:          &exact,
	})
	if err != nil {
		return Stats{}, fmt.Errorf("%w: count: %v", domain.ErrStoreUnavailable, err)
	}

	st := Stats{
		TotalDocuments: int(count.GetResult().GetCount()),
		Categories:     map[string]int{},
		Collection:     s.collection,
	}
	if st.TotalDocuments == 0 {
		return st, nil
	}

	limit := uint32(256)
	var offset *pb.PointId
	for {
		page, err := s.points.Scroll(ctx, &pb.ScrollPoints{
			CollectionName: s.collection,
			Limit:          &limit,
			Offset:         offset,
			WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
		})
		if err != nil {
			return Stats{}, fmt.Errorf("%w: scroll: %v", domain.ErrStoreUnavailable, err)
		}
		for _, p := range page.GetResult() {
			cat := p.GetPayload()["category"].GetStringValue()
			if cat == "" {
				cat = "unknown"
			}
			st.Categories[cat]++
		}
		offset = page.GetNextPageOffset()
		if offset == nil || len(page.GetResult()) == 0 {
			break
		}
	}
	return st, nil
}

// DocumentText is the text that gets embedded for a document. Question
// and answer are combined for better semantic matching.
func DocumentText(d domain.Document) string {
	return fmt.Sprintf("Question: %s\nAnswer: %s", d.Question, d.Answer)
}

// PointID derives a stable Qdrant point UUID from a document ID, so that
// re-ingesting an ID overwrites rather than duplicates.
func PointID(docID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("voicedesk/doc/"+docID)).String()
}

func stringValue(s string) *pb.Value {
	return &pb.Value{Kind: &pb.Value_StringValue{StringValue: s}}
}
