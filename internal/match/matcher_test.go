package match

import (
	"context"
	"errors"
	"testing"
)

// stubEmbedder maps each text to a fixed vector. Unknown texts get a zero
// vector, which never scores against anything.
type stubEmbedder struct {
	vectors map[string][]float32
	calls   int
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	s.calls++
	result := make([][]float32, len(texts))
	for i, text := range texts {
		if vec, ok := s.vectors[text]; ok {
			result[i] = vec
		} else {
			result[i] = []float32{0, 0, 0}
		}
	}
	return result, nil
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("embedding backend unavailable")
}

func newStubMatcher() (*Matcher, *stubEmbedder) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		// "sql" and "postgres" point the same way, "golang" is close to "go".
		"sql":      {1, 0, 0},
		"postgres": {1, 0, 0},
		"golang":   {0.9, 0.1, 0},
		"go":       {1, 0, 0},
	}}
	return NewMatcher(embedder, 0.7, nil), embedder
}

func TestFoundWithLocationsSemanticMatch(t *testing.T) {
	matcher, _ := newStubMatcher()

	found, allFound, err := matcher.FoundWithLocations(context.Background(),
		"worked with postgres daily", "", []string{"sql"})
	if err != nil {
		t.Fatalf("matching: %v", err)
	}

	if !allFound {
		t.Fatalf("expected keyword found")
	}
	places := found["sql"]
	if len(places) != 1 || places[0] != LocationResume {
		t.Fatalf("expected pdf location, got %v", places)
	}
}

func TestFoundWithLocationsExactTokenShortcut(t *testing.T) {
	matcher, _ := newStubMatcher()

	// "kubernetes" has no stub vector, the exact token match has to carry it.
	found, allFound, err := matcher.FoundWithLocations(context.Background(),
		"", "I deployed Kubernetes clusters", []string{"Kubernetes"})
	if err != nil {
		t.Fatalf("matching: %v", err)
	}

	if !allFound {
		t.Fatalf("expected exact token match")
	}
	if places := found["Kubernetes"]; len(places) != 1 || places[0] != LocationAnswers {
		t.Fatalf("expected answers location, got %v", places)
	}
}

func TestFoundWithLocationsMissingKeyword(t *testing.T) {
	matcher, _ := newStubMatcher()

	found, allFound, err := matcher.FoundWithLocations(context.Background(),
		"worked with postgres", "", []string{"sql", "terraform"})
	if err != nil {
		t.Fatalf("matching: %v", err)
	}

	if allFound {
		t.Fatalf("expected missing keyword to clear allFound")
	}
	if _, ok := found["terraform"]; ok {
		t.Fatalf("expected unmatched keyword absent from map, got %v", found)
	}
	if _, ok := found["sql"]; !ok {
		t.Fatalf("expected matched keyword present, got %v", found)
	}
}

func TestFoundWithLocationsBothSources(t *testing.T) {
	matcher, _ := newStubMatcher()

	found, _, err := matcher.FoundWithLocations(context.Background(),
		"postgres expert", "wrote sql reports", []string{"sql"})
	if err != nil {
		t.Fatalf("matching: %v", err)
	}

	if places := found["sql"]; len(places) != 2 {
		t.Fatalf("expected both locations, got %v", places)
	}
}

func TestAnyMatch(t *testing.T) {
	matcher, _ := newStubMatcher()

	ok, err := matcher.AnyMatch(context.Background(),
		"golang services", "", []string{"terraform", "go"})
	if err != nil {
		t.Fatalf("matching: %v", err)
	}
	if !ok {
		t.Fatalf("expected a related keyword to match")
	}
}

func TestAnyMatchNothingFound(t *testing.T) {
	matcher, _ := newStubMatcher()

	ok, err := matcher.AnyMatch(context.Background(),
		"unrelated text", "", []string{"terraform"})
	if err != nil {
		t.Fatalf("matching: %v", err)
	}
	if ok {
		t.Fatalf("expected no match")
	}
}

func TestAnyMatchEmptyKeywordListFails(t *testing.T) {
	matcher, _ := newStubMatcher()

	ok, err := matcher.AnyMatch(context.Background(), "any text at all", "", nil)
	if err != nil {
		t.Fatalf("matching: %v", err)
	}
	if ok {
		t.Fatalf("expected empty keyword list to never match")
	}
}

func TestFoundWithLocationsPropagatesEmbedderError(t *testing.T) {
	matcher := NewMatcher(failingEmbedder{}, 0.7, nil)

	_, _, err := matcher.FoundWithLocations(context.Background(),
		"some resume text", "", []string{"sql"})
	if err == nil {
		t.Fatalf("expected embedder error to propagate")
	}
}
