package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	config "github.com/maheshrc27/contentflow/configs"
	"github.com/maheshrc27/contentflow/internal/transfer"
)

func TestOpenAICompleter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}

		var req transfer.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "gpt-4" || req.Temperature != 0.7 {
			t.Errorf("unexpected request %+v", req)
		}
		if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_object" {
			t.Error("json response format not requested")
		}
		if len(req.Messages) != 1 || req.Messages[0].Content != "hello" {
			t.Errorf("messages = %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"ok\":true}"}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAICompleter(srv.Client(), srv.URL+"/", "sk-test", "gpt-4")
	out, err := c.Complete(context.Background(), "hello", 0.7)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != `{"ok":true}` {
		t.Errorf("out = %q", out)
	}
}

func TestOpenAICompleterError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	c := NewOpenAICompleter(srv.Client(), srv.URL, "bad", "gpt-4")
	_, err := c.Complete(context.Background(), "hello", 0.7)
	if err == nil || !strings.Contains(err.Error(), "Incorrect API key") {
		t.Fatalf("err = %v", err)
	}
}

func TestNewCompleterSelection(t *testing.T) {
	cfg := config.Config{OpenAIAPIKey: "sk", CohereAPIKey: "co"}
	if c := NewCompleter(cfg); c == nil || c.Name() != "openai" {
		t.Errorf("default with both keys = %v", c)
	}

	cfg.Generation.TextProvider = "cohere"
	if c := NewCompleter(cfg); c == nil || c.Name() != "cohere" {
		t.Errorf("explicit cohere = %v", c)
	}

	if c := NewCompleter(config.Config{}); c != nil {
		t.Errorf("no keys = %v, want nil", c)
	}
}
