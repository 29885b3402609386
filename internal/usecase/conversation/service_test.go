package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/chatterdesk/searchcore/internal/domain"
	domref "github.com/chatterdesk/searchcore/internal/domain/refine"
	"github.com/chatterdesk/searchcore/internal/domain/search/engine"
	"github.com/chatterdesk/searchcore/internal/domain/search/request"
	"github.com/chatterdesk/searchcore/internal/domain/search/result"
	"github.com/chatterdesk/searchcore/internal/usecase/exact"
	"github.com/chatterdesk/searchcore/internal/usecase/hybrid"
	"github.com/chatterdesk/searchcore/internal/usecase/refine"
)

// --- Mocks ---

type mockHybrid struct {
	resp   hybrid.Response
	err    error
	called bool
}

func (m *mockHybrid) Search(_ context.Context, _ *request.Request) (hybrid.Response, error) {
	m.called = true
	return m.resp, m.err
}

type mockExact struct {
	results []result.Result
	called  bool
}

func (m *mockExact) Search(_ context.Context, _, _ string, _ int) []result.Result {
	m.called = true
	return m.results
}

type mockCatalog struct {
	byIDs     []domain.CommerceProduct
	byIDsErr  error
	knn       []domain.CommerceProduct
	knnErr    error
	lastIDs   []string
	knnCalled bool
}

func (m *mockCatalog) ByIDs(_ context.Context, _ string, ids []string) ([]domain.CommerceProduct, error) {
	m.lastIDs = ids
	return m.byIDs, m.byIDsErr
}

func (m *mockCatalog) KNNProducts(_ context.Context, _ string, _ []float32, _ int, _ float64) ([]domain.CommerceProduct, error) {
	m.knnCalled = true
	return m.knn, m.knnErr
}

type mockConsolidator struct {
	lastProducts []domain.CommerceProduct
	lastPages    []domain.ScrapedPage
}

func (m *mockConsolidator) Consolidate(products []domain.CommerceProduct, pages []domain.ScrapedPage) []domain.ConsolidatedResult {
	m.lastProducts = products
	m.lastPages = pages
	out := make([]domain.ConsolidatedResult, 0, len(products))
	for _, p := range products {
		out = append(out, domain.ConsolidatedResult{
			Product:         p,
			FinalSimilarity: p.Similarity,
			Sources:         domain.Provenance{LiveData: true},
		})
	}
	return out
}

type mockRefiner struct {
	decision       domref.Decision
	lastCandidates []refine.Candidate
}

func (m *mockRefiner) Decide(_ context.Context, _ string, candidates []refine.Candidate) domref.Decision {
	m.lastCandidates = candidates
	return m.decision
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

type fixture struct {
	hybrid       *mockHybrid
	exact        *mockExact
	catalog      *mockCatalog
	consolidator *mockConsolidator
	refiner      *mockRefiner
	embed        *mockEmbedder
	svc          *Service
}

func newFixture() *fixture {
	f := &fixture{
		hybrid:       &mockHybrid{},
		exact:        &mockExact{},
		catalog:      &mockCatalog{},
		consolidator: &mockConsolidator{},
		refiner:      &mockRefiner{decision: domref.Direct("here you go")},
		embed:        &mockEmbedder{vec: []float32{0.1}},
	}
	f.svc = New(f.hybrid, f.exact, f.catalog, f.consolidator, f.refiner, f.embed, 0.65)
	return f
}

// --- Tests ---

func TestSearch_RequiresTenant(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Search(context.Background(), "pumps", Context{})
	if !errors.Is(err, domain.ErrMissingTenant) {
		t.Fatalf("expected ErrMissingTenant, got %v", err)
	}
}

func TestSearch_ExactHitShortCircuits(t *testing.T) {
	f := newFixture()
	f.exact.results = []result.Result{result.New("p1", 1.0, "snippet", engine.Exact)}
	f.catalog.byIDs = []domain.CommerceProduct{{ID: "p1", Name: "Pump"}}

	out, err := f.svc.Search(context.Background(), "PMP-4501", Context{DomainID: "acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.hybrid.called {
		t.Error("hybrid search must not run after an exact catalog hit")
	}
	if f.embed.called {
		t.Error("no embedding needed on the exact path")
	}
	if len(out.Results) != 1 || out.Results[0].Product.ID != "p1" {
		t.Fatalf("expected the exact product, got %+v", out.Results)
	}
	if out.Results[0].FinalSimilarity != 1.0 {
		t.Errorf("exact path similarity = %v, want 1.0", out.Results[0].FinalSimilarity)
	}
}

func TestSearch_ExactContentHitBecomesPage(t *testing.T) {
	f := newFixture()
	f.exact.results = []result.Result{
		result.New("https://shop.example.com/manuals/pmp-4501", 1.0, "…fits the PMP-4501 housing…", engine.Exact).
			WithURL("https://shop.example.com/manuals/pmp-4501").
			WithTitle("Pump manual").
			WithMethod(exact.MethodContent),
	}

	_, err := f.svc.Search(context.Background(), "PMP-4501", Context{DomainID: "acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.hybrid.called || f.embed.called {
		t.Error("content hits must short-circuit like catalog hits")
	}
	if len(f.catalog.lastIDs) != 0 {
		t.Errorf("page URLs must not be looked up as product IDs, got %v", f.catalog.lastIDs)
	}
	pages := f.consolidator.lastPages
	if len(pages) != 1 || pages[0].URL != "https://shop.example.com/manuals/pmp-4501" {
		t.Fatalf("expected the content hit consolidated as a page, got %+v", pages)
	}
	if pages[0].Similarity != 1.0 {
		t.Errorf("content hit similarity = %v, want 1.0", pages[0].Similarity)
	}
	if pages[0].Content != "…fits the PMP-4501 housing…" {
		t.Errorf("context window lost: %q", pages[0].Content)
	}
}

func TestSearch_HybridPathFeedsConsolidation(t *testing.T) {
	f := newFixture()
	f.hybrid.resp = hybrid.Response{Results: []result.Result{
		result.New("page1", 0.72, "page snippet", engine.FTS).
			WithURL("https://shop.example.com/page1").
			WithTitle("Page One"),
	}}
	f.catalog.knn = []domain.CommerceProduct{
		{ID: "p1", Name: "Pump", Similarity: 0.8, HasSimilarity: true},
	}

	out, err := f.svc.Search(context.Background(), "hydraulic pump", Context{DomainID: "acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.hybrid.called || !f.catalog.knnCalled {
		t.Fatal("both content and product lookups must run")
	}
	if len(f.consolidator.lastPages) != 1 || f.consolidator.lastPages[0].URL != "https://shop.example.com/page1" {
		t.Fatalf("hybrid hits must be reshaped into pages, got %+v", f.consolidator.lastPages)
	}
	if f.consolidator.lastPages[0].Similarity != 0.72 {
		t.Errorf("page similarity = %v, want the blended score", f.consolidator.lastPages[0].Similarity)
	}
	if len(out.Results) != 1 {
		t.Fatalf("expected 1 consolidated result, got %d", len(out.Results))
	}
	if len(f.refiner.lastCandidates) != 1 || f.refiner.lastCandidates[0].Similarity != 0.8 {
		t.Errorf("refiner candidates must carry final similarity, got %+v", f.refiner.lastCandidates)
	}
}

func TestSearch_EmbeddingFailureStillSearchesContent(t *testing.T) {
	f := newFixture()
	f.embed.err = errors.New("provider down")
	f.hybrid.resp = hybrid.Response{Results: []result.Result{
		result.New("page1", 0.5, "snippet", engine.FTS),
	}}

	_, err := f.svc.Search(context.Background(), "pumps", Context{DomainID: "acme"})
	if err != nil {
		t.Fatalf("embedding failure must degrade, not error: %v", err)
	}
	if f.catalog.knnCalled {
		t.Error("product knn must be skipped without an embedding")
	}
	if !f.hybrid.called {
		t.Error("content search must still run")
	}
	if len(f.consolidator.lastPages) != 1 {
		t.Errorf("pages must still reach consolidation, got %+v", f.consolidator.lastPages)
	}
}

func TestSearch_NarrowedTurnSkipsEngines(t *testing.T) {
	f := newFixture()
	f.catalog.byIDs = []domain.CommerceProduct{
		{ID: "p2", Name: "Budget Pump"},
		{ID: "p3", Name: "Premium Pump"},
	}

	out, err := f.svc.Search(context.Background(), "the cheaper ones", Context{
		DomainID:           "acme",
		NarrowedProductIDs: []string{"p2", "p3"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.exact.called || f.hybrid.called || f.embed.called {
		t.Error("narrowed turns must re-evaluate without running the engines")
	}
	if len(f.catalog.lastIDs) != 2 {
		t.Errorf("expected the narrowed set fetched, got %v", f.catalog.lastIDs)
	}
	if len(out.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out.Results))
	}
}

func TestSearch_NarrowedTurnFetchErrorDegrades(t *testing.T) {
	f := newFixture()
	f.catalog.byIDsErr = errors.New("down")

	out, err := f.svc.Search(context.Background(), "these", Context{
		DomainID:           "acme",
		NarrowedProductIDs: []string{"p1"},
	})
	if err != nil {
		t.Fatalf("a failed narrowed fetch must degrade, not error: %v", err)
	}
	if out.Decision.ShouldRefine {
		t.Error("degraded turn must present directly, not prompt for refinement")
	}
	if out.Decision.Response == "" {
		t.Error("degraded turn must carry an honest response")
	}
	if len(out.Results) != 0 {
		t.Errorf("expected no results, got %+v", out.Results)
	}
}
