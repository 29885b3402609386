package fts

import (
	"context"
	"errors"
	"testing"

	"github.com/chatterdesk/searchcore/internal/domain"
	"github.com/chatterdesk/searchcore/internal/domain/search/engine"
	"github.com/chatterdesk/searchcore/internal/domain/search/request"
	"github.com/chatterdesk/searchcore/internal/domain/search/result"
)

type mockRepo struct {
	results []result.Result
	total   int
	err     error
	called  bool
}

func (m *mockRepo) FullText(_ context.Context, _ *request.Request) ([]result.Result, int, error) {
	m.called = true
	return m.results, m.total, m.err
}

func makeRequest(t *testing.T, query string) *request.Request {
	t.Helper()
	r, err := request.New(query, request.Filters{DomainID: "acme"}, 10, 0, 0)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &r
}

func TestSearch_BlankQuery(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	resp, err := svc.Search(context.Background(), makeRequest(t, "   "))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) != 0 || resp.TotalCount != 0 {
		t.Fatalf("blank query must yield empty response, got %+v", resp)
	}
	if repo.called {
		t.Error("repository must not be queried for a blank query")
	}
}

func TestSearch_WrapsRepositoryError(t *testing.T) {
	repo := &mockRepo{err: errors.New("connection refused")}
	svc := New(repo)

	_, err := svc.Search(context.Background(), makeRequest(t, "pumps"))
	if !errors.Is(err, domain.ErrDatastore) {
		t.Fatalf("expected ErrDatastore, got %v", err)
	}
}

func TestSearch_PassesThroughResults(t *testing.T) {
	repo := &mockRepo{
		results: []result.Result{result.New("a", 0.9, "snippet", engine.FTS)},
		total:   42,
	}
	svc := New(repo)

	resp, err := svc.Search(context.Background(), makeRequest(t, "pumps"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) != 1 || resp.TotalCount != 42 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
