package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestShortener(gen TextGenerator) LabelShortener {
	return NewLabelShortener(gen, time.Second, zap.NewNop())
}

func TestShorten_BuildsMapping(t *testing.T) {
	gen := &stubGenerator{response: "```json\n{\"5+ years of Python experience\": \"Python Exp\", \"Bachelor's degree in Computer Science\": \"CS Degree\"}\n```"}
	shortener := newTestShortener(gen)

	labels, err := shortener.Shorten(context.Background(), []string{
		"5+ years of Python experience",
		"Bachelor's degree in Computer Science",
	})
	if err != nil {
		t.Fatalf("Shorten() failed: %v", err)
	}

	if got := labels["5+ years of Python experience"]; got != "Python Exp" {
		t.Errorf("label = %q, want %q", got, "Python Exp")
	}
	if got := labels["Bachelor's degree in Computer Science"]; got != "CS Degree" {
		t.Errorf("label = %q, want %q", got, "CS Degree")
	}
}

func TestShorten_SkipsNonStringValues(t *testing.T) {
	gen := &stubGenerator{response: `{"Header A": "A", "Header B": 7}`}
	shortener := newTestShortener(gen)

	labels, err := shortener.Shorten(context.Background(), []string{"Header A", "Header B"})
	if err != nil {
		t.Fatalf("Shorten() failed: %v", err)
	}

	if _, ok := labels["Header B"]; ok {
		t.Error("non-string value should not produce a label entry")
	}
	if got := labels["Header A"]; got != "A" {
		t.Errorf("label = %q, want %q", got, "A")
	}
}

func TestShorten_MalformedResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not json", "sure, here are your shortened labels"},
		{"array instead of object", `["A", "B"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shortener := newTestShortener(&stubGenerator{response: tt.response})

			_, err := shortener.Shorten(context.Background(), []string{"Header A"})
			assertAPIError(t, err, 500, "Failed to shorten requirement labels")
		})
	}
}

func TestShorten_BackendFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("deadline exceeded")}
	shortener := newTestShortener(gen)

	_, err := shortener.Shorten(context.Background(), []string{"Header A"})
	assertAPIError(t, err, 500, "Failed to shorten requirement labels")
}
