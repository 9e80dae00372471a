package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/docmill/docmill/internal/common"
	"github.com/docmill/docmill/internal/llm"
)

func TestGenerateEssay(t *testing.T) {
	var gotReq generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatal(err)
		}
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "An essay.", Done: true})
	}))
	defer srv.Close()

	sys := "You are a critic."
	c := NewClient(Config{
		BaseURL: srv.URL,
		Model:   "llama3.2",
		Persona: llm.Persona{System: sys},
	}, nil)

	essay, err := c.GenerateEssay(context.Background(), llm.EssayRequest{
		DocumentName: "poem.docx",
		DocumentText: "Rose\nis red",
	})
	if err != nil {
		t.Fatal(err)
	}
	if essay != "An essay." {
		t.Errorf("essay = %q", essay)
	}
	if gotReq.Model != "llama3.2" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if gotReq.System != sys {
		t.Errorf("system = %q", gotReq.System)
	}
	if gotReq.Stream {
		t.Error("stream must be false")
	}
	if !strings.Contains(gotReq.Prompt, "Rose\nis red") {
		t.Error("document text missing from prompt")
	}
}

func TestGenerateEssayModelError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(generateResponse{Error: "model not found"})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)
	_, err := c.GenerateEssay(context.Background(), llm.EssayRequest{DocumentName: "a.docx"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, common.ErrGeneration) {
		t.Errorf("error not classed as ErrGeneration: %v", err)
	}
}

func TestGenerateEssayEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "   ", Done: true})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)
	_, err := c.GenerateEssay(context.Background(), llm.EssayRequest{DocumentName: "a.docx"})
	if !errors.Is(err, common.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}

func TestGenerateEssayHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)
	_, err := c.GenerateEssay(context.Background(), llm.EssayRequest{DocumentName: "a.docx"})
	if !errors.Is(err, common.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}

func TestGenerateEssayUnreachable(t *testing.T) {
	// Reserve a port, then close it so the connection is refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: url}, nil)
	_, err := c.GenerateEssay(context.Background(), llm.EssayRequest{DocumentName: "a.docx"})
	if !errors.Is(err, common.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}

// refuseOnce fails the first request with a connection-level error and
// passes every later request to the wrapped transport.
type refuseOnce struct {
	next  http.RoundTripper
	calls int
}

func (rt *refuseOnce) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.calls++
	if rt.calls == 1 {
		return nil, &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	}
	return rt.next.RoundTrip(req)
}

func TestGenerateEssayRetriesTransientFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "An essay.", Done: true})
	}))
	defer srv.Close()

	rt := &refuseOnce{next: http.DefaultTransport}
	c := NewClient(Config{
		BaseURL:    srv.URL,
		MaxRetries: 1,
		HTTPClient: &http.Client{Transport: rt},
	}, nil)

	essay, err := c.GenerateEssay(context.Background(), llm.EssayRequest{DocumentName: "a.docx"})
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if essay != "An essay." {
		t.Errorf("essay = %q", essay)
	}
	if rt.calls != 2 {
		t.Errorf("transport calls = %d, want 2", rt.calls)
	}
}

func TestGenerateEssayNoRetryWhenDisabled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "An essay.", Done: true})
	}))
	defer srv.Close()

	rt := &refuseOnce{next: http.DefaultTransport}
	c := NewClient(Config{
		BaseURL:    srv.URL,
		MaxRetries: 0,
		HTTPClient: &http.Client{Transport: rt},
	}, nil)

	_, err := c.GenerateEssay(context.Background(), llm.EssayRequest{DocumentName: "a.docx"})
	if !errors.Is(err, common.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
	if rt.calls != 1 {
		t.Errorf("transport calls = %d, want 1", rt.calls)
	}
}

func TestGenerateEssayNoRetryOnHTTPStatus(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, MaxRetries: 3}, nil)
	_, err := c.GenerateEssay(context.Background(), llm.EssayRequest{DocumentName: "a.docx"})
	if !errors.Is(err, common.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
	if hits != 1 {
		t.Errorf("server hits = %d, HTTP-level errors must not be retried", hits)
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{}, nil)
	if c.cfg.Model != "llama3.2" {
		t.Errorf("default model = %q", c.cfg.Model)
	}
	if c.cfg.BaseURL == "" {
		t.Error("default base URL not set")
	}
}

func TestPersonaModelOverride(t *testing.T) {
	c := NewClient(Config{Model: "llama3.2", Persona: llm.Persona{Model: "mistral"}}, nil)
	if c.cfg.Model != "mistral" {
		t.Errorf("model = %q, want persona override", c.cfg.Model)
	}
}
