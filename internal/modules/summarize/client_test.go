package summarize

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/gistify/core/internal/config"
	"go.uber.org/zap"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.SummarizerConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}, zap.NewNop())
}

func TestSummarize(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/summarize" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.FormValue("summary_type"); got != "summary_concise" {
			t.Errorf("summary_type = %q", got)
		}
		if got := r.FormValue("doc_id"); got != "doc-1" {
			t.Errorf("doc_id = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"summary":"the gist","advantages":["a","b"],"disadvantages":"only one","doc_id":"doc-1","chromaId":"chroma-9"}`))
	})

	result, err := c.Summarize(context.Background(), Request{
		DocID:    "doc-1",
		FilePath: "https://bucket/doc.pdf",
		FileName: "doc.pdf",
		UserID:   "u1",
		Style:    "summary_concise",
	})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if result.Summary != "the gist" {
		t.Fatalf("summary = %q", result.Summary)
	}
	if !reflect.DeepEqual([]string(result.Advantages), []string{"a", "b"}) {
		t.Fatalf("advantages = %v", result.Advantages)
	}
	if !reflect.DeepEqual([]string(result.Disadvantages), []string{"only one"}) {
		t.Fatalf("disadvantages = %v", result.Disadvantages)
	}
	if result.ChromaRef() != "chroma-9" {
		t.Fatalf("chroma ref = %q", result.ChromaRef())
	}
}

func TestSummarizeUpstreamError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"model overloaded"}`))
	})

	_, err := c.Summarize(context.Background(), Request{DocID: "doc-1", Style: "summary_concise"})
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Status != http.StatusBadGateway {
		t.Fatalf("status = %d", upstream.Status)
	}
	if upstream.Detail != "model overloaded" {
		t.Fatalf("detail = %q", upstream.Detail)
	}
}

func TestAsk(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ask" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"answer":"forty-two"}`))
	})

	answer, err := c.Ask(context.Background(), "chroma-9", "what is the answer")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if answer != "forty-two" {
		t.Fatalf("answer = %q", answer)
	}
}

func TestChromaRefFallsBackToDocID(t *testing.T) {
	r := Result{DocID: "doc-1"}
	if r.ChromaRef() != "doc-1" {
		t.Fatalf("got %q", r.ChromaRef())
	}
}
