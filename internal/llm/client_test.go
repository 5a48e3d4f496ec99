package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"rx-line/internal/domain"
)

func TestHTTPClientAnalyzeImage_RequestShape(t *testing.T) {
	var payload map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &payload)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ロキソニン\nムコダイン"}}]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "sk-test", "gpt-4o", zap.NewNop())
	out, err := c.AnalyzeImage(context.Background(), "extrae", []byte("img"), "image/png")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if out != "ロキソニン\nムコダイン" {
		t.Fatalf("unexpected content %q", out)
	}
	if auth != "Bearer sk-test" {
		t.Fatalf("unexpected auth %q", auth)
	}
	if payload["model"] != "gpt-4o" || payload["max_tokens"] != float64(300) {
		t.Fatalf("unexpected payload: %+v", payload)
	}

	msgs := payload["messages"].([]any)
	msg := msgs[0].(map[string]any)
	if msg["role"] != "user" {
		t.Fatalf("unexpected role: %+v", msg)
	}
	parts := msg["content"].([]any)
	if len(parts) != 2 {
		t.Fatalf("expected 2 content parts, got %d", len(parts))
	}
	text := parts[0].(map[string]any)
	if text["type"] != "text" || text["text"] != "extrae" {
		t.Fatalf("unexpected text part: %+v", text)
	}
	img := parts[1].(map[string]any)
	imgURL := img["image_url"].(map[string]any)
	if img["type"] != "image_url" || imgURL["detail"] != "high" || imgURL["url"] != "data:image/png;base64,aW1n" {
		t.Fatalf("unexpected image part: %+v", img)
	}
}

func TestHTTPClientAnalyzeImage_Errors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{name: "non 2xx", status: http.StatusTooManyRequests, body: `{"error":{"message":"rate limited"}}`},
		{name: "api error", status: http.StatusOK, body: `{"error":{"message":"bad image"}}`},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewHTTPClient(srv.URL, "k", "", zap.NewNop())
			if _, err := c.AnalyzeImage(context.Background(), "p", []byte("x"), ""); !errors.Is(err, domain.ErrGateway) {
				t.Fatalf("expected ErrGateway, got %v", err)
			}
		})
	}
}

func TestDataURL_DefaultsMime(t *testing.T) {
	if got := DataURL("", []byte("a")); got != "data:image/jpeg;base64,YQ==" {
		t.Fatalf("unexpected data url %q", got)
	}
}
