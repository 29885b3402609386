package refine

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/chatterdesk/searchcore/internal/domain"
	domref "github.com/chatterdesk/searchcore/internal/domain/refine"
)

func newTestService() *Service {
	return New(Config{})
}

func candidate(id, category string, similarity float64) Candidate {
	return Candidate{
		Product: domain.CommerceProduct{
			ID:         id,
			Name:       "Product " + id,
			Categories: []string{category},
		},
		Similarity: similarity,
	}
}

// heterogeneous builds n candidates spread across three categories with a
// wide similarity spread.
func heterogeneous(n int) []Candidate {
	cats := []string{"pumps", "valves", "filters"}
	out := make([]Candidate, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, candidate(fmt.Sprintf("p%d", i), cats[i%3], 0.5+float64(i)*0.04))
	}
	return out
}

// --- Tests ---

func TestDecide_ZeroResults(t *testing.T) {
	d := newTestService().Decide(context.Background(), "purple elephant", nil)
	if d.ShouldRefine {
		t.Fatal("zero results must present directly")
	}
	if !strings.Contains(d.Response, "couldn't find") {
		t.Errorf("expected an honest nothing-found message, got %q", d.Response)
	}
}

func TestDecide_SKUQuerySuppressesRefinement(t *testing.T) {
	d := newTestService().Decide(context.Background(), "PMP-4501", heterogeneous(10))
	if d.ShouldRefine {
		t.Fatal("a SKU query must never trigger refinement")
	}
}

func TestDecide_SpecificLanguageSuppresses(t *testing.T) {
	for _, q := range []string{"the specific one I saw", "the exact model"} {
		d := newTestService().Decide(context.Background(), q, heterogeneous(10))
		if d.ShouldRefine {
			t.Errorf("query %q must suppress refinement", q)
		}
	}
}

func TestDecide_FewResultsSuppresses(t *testing.T) {
	d := newTestService().Decide(context.Background(), "pumps", heterogeneous(3))
	if d.ShouldRefine {
		t.Fatal("fewer than 5 results must present directly")
	}
}

func TestDecide_HomogeneousSuppresses(t *testing.T) {
	candidates := []Candidate{
		candidate("p1", "pumps", 0.90),
		candidate("p2", "pumps", 0.88),
		candidate("p3", "pumps", 0.86),
		candidate("p4", "pumps", 0.85),
		candidate("p5", "pumps", 0.84),
	}
	d := newTestService().Decide(context.Background(), "hydraulic pumps", candidates)
	if d.ShouldRefine {
		t.Fatal("one category with a tight similarity spread is homogeneous")
	}
}

func TestDecide_OneCategoryWideSpreadRefines(t *testing.T) {
	candidates := []Candidate{
		candidate("p1", "pumps", 0.95),
		candidate("p2", "pumps", 0.80),
		candidate("p3", "pumps", 0.65),
		candidate("p4", "pumps", 0.55),
		candidate("p5", "pumps", 0.45),
	}
	d := newTestService().Decide(context.Background(), "hydraulic pumps", candidates)
	if !d.ShouldRefine {
		t.Fatal("wide similarity spread must not count as homogeneous")
	}
}

func TestDecide_EverythingSuppresses(t *testing.T) {
	for _, q := range []string{"show me everything", "list all products"} {
		d := newTestService().Decide(context.Background(), q, heterogeneous(10))
		if d.ShouldRefine {
			t.Errorf("query %q must suppress refinement", q)
		}
	}
}

func TestDecide_HeterogeneousRefinesByCategory(t *testing.T) {
	d := newTestService().Decide(context.Background(), "pumps", heterogeneous(10))
	if !d.ShouldRefine {
		t.Fatal("10 heterogeneous results must trigger refinement")
	}
	if d.Strategy != domref.ByCategory {
		t.Errorf("strategy = %q, want category", d.Strategy)
	}
	if !strings.Contains(d.Response, "Which type") {
		t.Errorf("category prompt should ask which type, got %q", d.Response)
	}
	if !strings.Contains(d.Response, "10 products") {
		t.Errorf("prompt should mention the count, got %q", d.Response)
	}
}

func TestDecide_PriceFallbackWhenOneCategory(t *testing.T) {
	price := func(id string, p float64, sim float64) Candidate {
		c := candidate(id, "pumps", sim)
		c.Product.Price = p
		c.Product.HasPrice = true
		return c
	}
	candidates := []Candidate{
		price("p1", 20, 0.95),
		price("p2", 45, 0.80),
		price("p3", 100, 0.65),
		price("p4", 160, 0.55),
		price("p5", 300, 0.45),
	}
	d := newTestService().Decide(context.Background(), "pumps", candidates)
	if !d.ShouldRefine || d.Strategy != domref.ByPrice {
		t.Fatalf("expected price refinement, got %+v", d)
	}
	if !strings.Contains(d.Response, "Would you like") {
		t.Errorf("price prompt should end in a question, got %q", d.Response)
	}
}

func TestPriceBands_BoundariesAreMidRange(t *testing.T) {
	svc := newTestService()
	price := func(p float64) Candidate {
		return Candidate{Product: domain.CommerceProduct{Price: p, HasPrice: true}}
	}

	bands, _ := svc.priceBands([]Candidate{price(50.00), price(150.00)})
	if bands.budget != 0 || bands.mid != 2 || bands.premium != 0 {
		t.Errorf("both boundary prices belong in mid: %+v", bands)
	}

	bands, _ = svc.priceBands([]Candidate{price(49.99), price(150.01)})
	if bands.budget != 1 || bands.premium != 1 {
		t.Errorf("expected one budget and one premium: %+v", bands)
	}
}

func TestDecide_StockFallback(t *testing.T) {
	stock := func(id string, st domain.StockStatus, sim float64) Candidate {
		c := candidate(id, "pumps", sim)
		c.Product.StockStatus = st
		return c
	}
	candidates := []Candidate{
		stock("p1", domain.InStock, 0.95),
		stock("p2", domain.InStock, 0.80),
		stock("p3", domain.OutOfStock, 0.65),
		stock("p4", domain.OutOfStock, 0.55),
		stock("p5", domain.OnBackorder, 0.45),
	}
	d := newTestService().Decide(context.Background(), "pumps", candidates)
	if !d.ShouldRefine || d.Strategy != domref.ByStock {
		t.Fatalf("expected stock refinement, got %+v", d)
	}
}

func TestDecide_MatchQualityLastResort(t *testing.T) {
	candidates := []Candidate{
		candidate("p1", "pumps", 0.95),
		candidate("p2", "pumps", 0.85),
		candidate("p3", "pumps", 0.70),
		candidate("p4", "pumps", 0.62),
		candidate("p5", "pumps", 0.50),
	}
	d := newTestService().Decide(context.Background(), "pumps", candidates)
	if !d.ShouldRefine || d.Strategy != domref.ByMatchQuality {
		t.Fatalf("expected match-quality refinement, got %+v", d)
	}
	if !strings.Contains(d.Response, "excellent") {
		t.Errorf("expected quality bands named, got %q", d.Response)
	}
}

func TestDecide_RankingAwareNamesSignals(t *testing.T) {
	candidates := []Candidate{
		{
			Product:         domain.CommerceProduct{ID: "p1", Name: "Alpha Pump", Categories: []string{"pumps"}},
			Similarity:      0.9,
			RankingScore:    0.92,
			HasRankingScore: true,
			RankingSignals:  []string{"semantic similarity", "stock availability"},
		},
		{
			Product:         domain.CommerceProduct{ID: "p2", Name: "Beta Pump", Categories: []string{"pumps"}},
			Similarity:      0.88,
			RankingScore:    0.60,
			HasRankingScore: true,
		},
	}
	d := newTestService().Decide(context.Background(), "pumps", candidates)
	if d.ShouldRefine {
		t.Fatal("2 results must present directly")
	}
	if !strings.Contains(d.Response, "Alpha Pump") {
		t.Errorf("top match must be named, got %q", d.Response)
	}
	if strings.Contains(d.Response, "Beta Pump") {
		t.Errorf("below-cutoff items must not be named as top matches, got %q", d.Response)
	}
	if !strings.Contains(d.Response, "semantic similarity") {
		t.Errorf("ranking signals must be named, got %q", d.Response)
	}
}

func TestDecide_RankingAwareNoneAboveCutoff(t *testing.T) {
	candidates := []Candidate{
		{Product: domain.CommerceProduct{ID: "p1", Name: "A"}, Similarity: 0.6, RankingScore: 0.5, HasRankingScore: true},
		{Product: domain.CommerceProduct{ID: "p2", Name: "B"}, Similarity: 0.55, RankingScore: 0.4, HasRankingScore: true},
	}
	d := newTestService().Decide(context.Background(), "pumps", candidates)
	if d.ShouldRefine {
		t.Fatal("expected direct presentation")
	}
	if !strings.Contains(d.Response, "none stood out") {
		t.Errorf("expected the honest no-standout message, got %q", d.Response)
	}
}
