package recommend

import "testing"

func TestNormalize(t *testing.T) {
	results := []Result{
		{ProductID: "a", Metadata: Metadata{RawScore: 5}},
		{ProductID: "b", Metadata: Metadata{RawScore: 10}},
		{ProductID: "c", Metadata: Metadata{RawScore: 2.5}},
	}

	Normalize(results)

	if results[0].ProductID != "b" || results[0].Score != 1.0 {
		t.Errorf("expected b with score 1.0 first, got %s/%v", results[0].ProductID, results[0].Score)
	}
	if results[1].ProductID != "a" || results[1].Score != 0.5 {
		t.Errorf("expected a with score 0.5 second, got %s/%v", results[1].ProductID, results[1].Score)
	}
	if results[2].ProductID != "c" || results[2].Score != 0.25 {
		t.Errorf("expected c with score 0.25 last, got %s/%v", results[2].ProductID, results[2].Score)
	}

	for _, r := range results {
		if r.Score < 0 || r.Score > 1 {
			t.Errorf("score out of [0,1]: %v", r.Score)
		}
	}
}

func TestNormalize_ZeroMax(t *testing.T) {
	results := []Result{
		{ProductID: "a", Metadata: Metadata{RawScore: 0}},
		{ProductID: "b", Metadata: Metadata{RawScore: 0}},
	}

	Normalize(results)

	for _, r := range results {
		if r.Score != 0 {
			t.Errorf("expected score 0 for zero raw max, got %v", r.Score)
		}
	}
}

func TestNormalize_Empty(t *testing.T) {
	if got := Normalize(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestNormalize_PreservesRawScore(t *testing.T) {
	results := []Result{{ProductID: "a", Metadata: Metadata{RawScore: 7}}}
	Normalize(results)
	if results[0].Metadata.RawScore != 7 {
		t.Errorf("raw score must survive normalization, got %v", results[0].Metadata.RawScore)
	}
}
