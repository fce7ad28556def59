package textgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mindtrace/engine/internal/testutil"
)

func generateHandler(t *testing.T, reply string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") == "" {
			t.Error("missing API key header")
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if len(req.Contents) != 1 || len(req.Contents[0].Parts) != 1 {
			t.Fatalf("unexpected request shape: %+v", req)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": reply}}}},
			},
		})
	}
}

func TestClient_Generate(t *testing.T) {
	srv := httptest.NewServer(generateHandler(t, "the model says hello"))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	got, err := c.Generate(context.Background(), "say hello")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "the model says hello" {
		t.Errorf("Generate() = %q", got)
	}
}

func TestClient_Generate_NoAPIKey(t *testing.T) {
	c := NewClient("")
	if _, err := c.Generate(context.Background(), "hi"); err == nil {
		t.Error("Generate() with empty key should error before any network call")
	}
}

func TestClient_Generate_PromptTooLarge(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithMaxPromptTokens(3))
	_, err := c.Generate(context.Background(), strings.Repeat("transcript of a long session ", 50))
	if err == nil {
		t.Fatal("Generate() error = nil, want token limit error")
	}
	if called {
		t.Error("oversized prompt reached the service")
	}
}

func TestClient_Generate_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	if _, err := c.Generate(context.Background(), "hi"); err == nil {
		t.Error("Generate() error = nil, want upstream error")
	}
}

func TestClient_Generate_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	if _, err := c.Generate(context.Background(), "hi"); err == nil {
		t.Error("Generate() error = nil, want empty-candidates error")
	}
}

// TestClient_Generate_Recorded replays a recorded exchange against the real
// service when a cassette is present. Record with VCR_MODE=record and a live
// TEXTGEN_API_KEY.
func TestClient_Generate_Recorded(t *testing.T) {
	rec, cleanup := testutil.NewVCRRecorder(t, "textgen_generate")
	defer cleanup()

	c := NewClient("test-key", WithHTTPClient(testutil.VCRHTTPClient(rec)))
	got, err := c.Generate(context.Background(), "Reply with the word ok.")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got == "" {
		t.Error("Generate() returned empty text")
	}
}
