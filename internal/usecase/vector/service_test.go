package vector

import (
	"context"
	"errors"
	"testing"

	"github.com/chatterdesk/searchcore/internal/domain"
	"github.com/chatterdesk/searchcore/internal/domain/recommend"
)

// --- Mocks ---

type mockCatalog struct {
	vectors    [][]float32
	vectorsErr error
	knn        []domain.CommerceProduct
	knnErr     error
	knnCalled  bool
	lastK      int
	lastMinSim float64
}

func (m *mockCatalog) Vectors(_ context.Context, _ string, _ []string) ([][]float32, error) {
	return m.vectors, m.vectorsErr
}

func (m *mockCatalog) KNNProducts(_ context.Context, _ string, _ []float32, k int, minSim float64) ([]domain.CommerceProduct, error) {
	m.knnCalled = true
	m.lastK = k
	m.lastMinSim = minSim
	return m.knn, m.knnErr
}

type mockInteractions struct {
	popularity map[string]float64
	err        error
}

func (m *mockInteractions) Popularity(_ context.Context, _ string) (map[string]float64, error) {
	return m.popularity, m.err
}

type mockEmbedder struct {
	vec    []float32
	err    error
	called bool
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.called = true
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

func defaultThresholds() Thresholds {
	return Thresholds{Reference: 0.70, Intent: 0.65}
}

// --- Tests ---

func TestSearch_RequiresTenant(t *testing.T) {
	svc := New(&mockCatalog{}, &mockInteractions{}, &mockEmbedder{}, defaultThresholds(), 10)
	_, err := svc.Search(context.Background(), Query{Limit: 5})
	if !errors.Is(err, domain.ErrMissingTenant) {
		t.Fatalf("expected ErrMissingTenant, got %v", err)
	}
}

func TestSearch_ZeroLimit(t *testing.T) {
	svc := New(&mockCatalog{}, &mockInteractions{}, &mockEmbedder{}, defaultThresholds(), 10)
	out, err := svc.Search(context.Background(), Query{DomainID: "acme"})
	if err != nil || out != nil {
		t.Fatalf("expected nil/nil for zero limit, got %v/%v", out, err)
	}
}

func TestSearch_ReferenceModeExcludesSeeds(t *testing.T) {
	catalog := &mockCatalog{
		vectors: [][]float32{{1, 0}, {0, 1}},
		knn: []domain.CommerceProduct{
			{ID: "seed1", Similarity: 0.99, HasSimilarity: true},
			{ID: "other", Similarity: 0.85, HasSimilarity: true},
		},
	}
	svc := New(catalog, &mockInteractions{}, &mockEmbedder{}, defaultThresholds(), 10)

	out, err := svc.Search(context.Background(), Query{
		DomainID:   "acme",
		ProductIDs: []string{"seed1", "seed2"},
		Limit:      5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].ProductID != "other" {
		t.Fatalf("expected seeds excluded, got %+v", out)
	}
	if out[0].Algorithm != recommend.VectorSimilarity {
		t.Errorf("algorithm = %q, want vector_similarity", out[0].Algorithm)
	}
	if catalog.lastMinSim != 0.70 {
		t.Errorf("reference threshold = %v, want 0.70", catalog.lastMinSim)
	}
	// Over-fetch: limit plus seed count.
	if catalog.lastK != 7 {
		t.Errorf("k = %d, want 7", catalog.lastK)
	}
}

func TestSearch_ReferenceModeNoStoredVectors(t *testing.T) {
	catalog := &mockCatalog{vectors: nil}
	svc := New(catalog, &mockInteractions{}, &mockEmbedder{}, defaultThresholds(), 10)

	out, err := svc.Search(context.Background(), Query{
		DomainID:   "acme",
		ProductIDs: []string{"seed1"},
		Limit:      5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != nil {
		t.Fatalf("expected nil with no seed embeddings, got %+v", out)
	}
	if catalog.knnCalled {
		t.Error("knn must not run with a nil mean vector")
	}
}

func TestSearch_IntentMode(t *testing.T) {
	catalog := &mockCatalog{knn: []domain.CommerceProduct{
		{ID: "p1", Similarity: 0.7, HasSimilarity: true},
	}}
	embed := &mockEmbedder{vec: []float32{0.5, 0.5}}
	svc := New(catalog, &mockInteractions{}, embed, defaultThresholds(), 10)

	out, err := svc.Search(context.Background(), Query{
		DomainID:       "acme",
		DetectedIntent: "waterproof hiking boots",
		Limit:          5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !embed.called {
		t.Error("intent mode must embed the intent text")
	}
	if catalog.lastMinSim != 0.65 {
		t.Errorf("intent threshold = %v, want 0.65", catalog.lastMinSim)
	}
	if len(out) != 1 || out[0].Metadata.Intent != "waterproof hiking boots" {
		t.Fatalf("expected intent echoed in metadata, got %+v", out)
	}
}

func TestSearch_IntentEmbeddingFailureDegrades(t *testing.T) {
	catalog := &mockCatalog{}
	embed := &mockEmbedder{err: errors.New("provider down")}
	svc := New(catalog, &mockInteractions{}, embed, defaultThresholds(), 10)

	out, err := svc.Search(context.Background(), Query{
		DomainID:       "acme",
		DetectedIntent: "boots",
		Limit:          5,
	})
	if err != nil {
		t.Fatalf("embedding failure must degrade, not error: %v", err)
	}
	if out != nil {
		t.Fatalf("expected nil on degradation, got %+v", out)
	}
	if catalog.knnCalled {
		t.Error("knn must not run after an embedding failure")
	}
}

func TestSearch_PopularityFallback(t *testing.T) {
	interactions := &mockInteractions{popularity: map[string]float64{
		"hot":  25, // capped at 1.0
		"warm": 5,  // 0.5
		"cool": 2,  // 0.2
	}}
	svc := New(&mockCatalog{}, interactions, &mockEmbedder{}, defaultThresholds(), 10)

	out, err := svc.Search(context.Background(), Query{DomainID: "acme", Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out))
	}
	if out[0].ProductID != "hot" || out[0].Score != 1.0 {
		t.Errorf("expected hot capped at 1.0 first, got %s/%v", out[0].ProductID, out[0].Score)
	}
	if out[1].ProductID != "warm" || out[1].Score != 0.5 {
		t.Errorf("expected warm at 0.5 second, got %s/%v", out[1].ProductID, out[1].Score)
	}
	if out[0].Algorithm != recommend.Popular {
		t.Errorf("algorithm = %q, want popular", out[0].Algorithm)
	}
	if out[0].Metadata.RawScore != 25 {
		t.Errorf("raw score must be preserved, got %v", out[0].Metadata.RawScore)
	}
}

func TestSearch_PopularityFallbackExcludes(t *testing.T) {
	interactions := &mockInteractions{popularity: map[string]float64{"a": 5, "b": 3}}
	svc := New(&mockCatalog{}, interactions, &mockEmbedder{}, defaultThresholds(), 10)

	out, err := svc.Search(context.Background(), Query{
		DomainID:          "acme",
		ExcludeProductIDs: []string{"a"},
		Limit:             10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].ProductID != "b" {
		t.Fatalf("expected only b, got %+v", out)
	}
}
