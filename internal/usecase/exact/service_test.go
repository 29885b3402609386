package exact

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/chatterdesk/searchcore/internal/domain"
)

// --- Mocks ---

type mockCatalog struct {
	products []domain.CommerceProduct
	err      error
	called   bool
	lastSKU  string
}

func (m *mockCatalog) BySKU(_ context.Context, _ string, sku string, _ int) ([]domain.CommerceProduct, error) {
	m.called = true
	m.lastSKU = sku
	return m.products, m.err
}

type mockPages struct {
	pages  []domain.ScrapedPage
	err    error
	called bool
}

func (m *mockPages) Containing(_ context.Context, _ string, _ string, _ int) ([]domain.ScrapedPage, error) {
	m.called = true
	return m.pages, m.err
}

// --- Tests ---

func TestSearch_NonSKUQuery(t *testing.T) {
	catalog := &mockCatalog{}
	pages := &mockPages{}
	svc := New(catalog, pages, 250)

	if got := svc.Search(context.Background(), "hydraulic pump", "acme", 10); got != nil {
		t.Fatalf("expected nil for non-SKU query, got %+v", got)
	}
	if catalog.called || pages.called {
		t.Error("no lookup should run for a non-SKU query")
	}
}

func TestSearch_CatalogHitShortCircuits(t *testing.T) {
	catalog := &mockCatalog{products: []domain.CommerceProduct{
		{ID: "p1", Name: "Pump PMP-4501", SKU: "PMP-4501", ShortDescription: "A pump."},
	}}
	pages := &mockPages{}
	svc := New(catalog, pages, 250)

	results := svc.Search(context.Background(), "do you stock PMP-4501", "acme", 10)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if pages.called {
		t.Error("content fallback should not run after a catalog hit")
	}
	r := results[0]
	if r.Score() != 1.0 {
		t.Errorf("exact hits carry similarity 1.0, got %v", r.Score())
	}
	if r.Method() != MethodCatalog {
		t.Errorf("method = %q, want %q", r.Method(), MethodCatalog)
	}
	if catalog.lastSKU != "PMP-4501" {
		t.Errorf("looked up %q, want the SKU token", catalog.lastSKU)
	}
}

func TestSearch_ContentFallback(t *testing.T) {
	catalog := &mockCatalog{} // no products
	pages := &mockPages{pages: []domain.ScrapedPage{
		{URL: "https://shop.example.com/manual", Title: "Manual", Content: "Spare part PMP-4501 fits all models."},
	}}
	svc := New(catalog, pages, 250)

	results := svc.Search(context.Background(), "PMP-4501", "acme", 10)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Method() != MethodContent {
		t.Errorf("method = %q, want %q", results[0].Method(), MethodContent)
	}
	if !strings.Contains(results[0].Snippet(), "PMP-4501") {
		t.Errorf("snippet should contain the token, got %q", results[0].Snippet())
	}
}

func TestSearch_CatalogErrorFallsThrough(t *testing.T) {
	catalog := &mockCatalog{err: errors.New("index down")}
	pages := &mockPages{pages: []domain.ScrapedPage{
		{URL: "https://shop.example.com/manual", Content: "contains ABC123 here"},
	}}
	svc := New(catalog, pages, 250)

	results := svc.Search(context.Background(), "ABC123", "acme", 10)
	if len(results) != 1 || results[0].Method() != MethodContent {
		t.Fatalf("expected content fallback after catalog error, got %+v", results)
	}
}

func TestSearch_AllAttemptsFail(t *testing.T) {
	catalog := &mockCatalog{err: errors.New("down")}
	pages := &mockPages{err: errors.New("down")}
	svc := New(catalog, pages, 250)

	if got := svc.Search(context.Background(), "ABC123", "acme", 10); got != nil {
		t.Fatalf("expected nil when everything degrades, got %+v", got)
	}
}

func TestContextWindow(t *testing.T) {
	content := strings.Repeat("a", 300) + " ABC123 " + strings.Repeat("b", 300)

	got := contextWindow(content, "ABC123", 250)
	if !strings.HasPrefix(got, "…") || !strings.HasSuffix(got, "…") {
		t.Errorf("expected ellipsis on both cut ends, got %q", got)
	}
	if !strings.Contains(got, "ABC123") {
		t.Errorf("window must contain the token, got %q", got)
	}

	short := "part ABC123 in stock"
	if got := contextWindow(short, "ABC123", 250); got != short {
		t.Errorf("short content must pass through unchanged, got %q", got)
	}

	missing := "nothing here"
	if got := contextWindow(missing, "ABC123", 250); got != missing {
		t.Errorf("absent token must return content unchanged, got %q", got)
	}
}

func TestContextWindow_CaseInsensitive(t *testing.T) {
	got := contextWindow("The part abc123 ships today", "ABC123", 250)
	if !strings.Contains(got, "abc123") {
		t.Errorf("case-insensitive match expected, got %q", got)
	}
}

func TestContextWindow_RuneBoundaries(t *testing.T) {
	// Multi-byte runes on both sides of the window: the cuts must never
	// land inside a rune.
	content := strings.Repeat("ä", 200) + " ABC123 " + strings.Repeat("ö", 200)

	got := contextWindow(content, "ABC123", 50)
	if !utf8.ValidString(got) {
		t.Fatalf("window split a rune: %q", got)
	}
	if !strings.Contains(got, "ABC123") {
		t.Errorf("window must contain the token, got %q", got)
	}
	if !strings.HasPrefix(got, "…") || !strings.HasSuffix(got, "…") {
		t.Errorf("expected ellipsis on both cut ends, got %q", got)
	}
}
