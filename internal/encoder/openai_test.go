package encoder

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestOpenAIEncoderEncode(t *testing.T) {
	var gotAuth string
	var gotPayload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/embeddings" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float32{0.1, 0.2, 0.3}}},
		})
	}))
	defer server.Close()

	enc, err := NewOpenAIEncoder(OpenAIConfig{BaseURL: server.URL, APIKey: "sk-test", Dimensions: 256})
	if err != nil {
		t.Fatalf("NewOpenAIEncoder() error = %v", err)
	}

	vector, err := enc.Encode(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !reflect.DeepEqual(vector, []float32{0.1, 0.2, 0.3}) {
		t.Fatalf("Encode() = %v", vector)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotPayload["model"] != "text-embedding-3-small" {
		t.Fatalf("model = %v", gotPayload["model"])
	}
	if gotPayload["dimensions"] != float64(256) {
		t.Fatalf("dimensions = %v", gotPayload["dimensions"])
	}
	inputs, ok := gotPayload["input"].([]any)
	if !ok || len(inputs) != 1 || inputs[0] != "hello" {
		t.Fatalf("input = %v", gotPayload["input"])
	}
}

func TestOpenAIEncoderErrorStatusIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	enc, err := NewOpenAIEncoder(OpenAIConfig{BaseURL: server.URL, APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("NewOpenAIEncoder() error = %v", err)
	}
	if _, err := enc.Encode(context.Background(), "hello"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Encode() error = %v, want ErrUnavailable", err)
	}
}

func TestOpenAIEncoderEmptyResponseIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{}})
	}))
	defer server.Close()

	enc, err := NewOpenAIEncoder(OpenAIConfig{BaseURL: server.URL, APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("NewOpenAIEncoder() error = %v", err)
	}
	if _, err := enc.Encode(context.Background(), "hello"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Encode() error = %v, want ErrUnavailable", err)
	}
}

func TestOpenAIEncoderUnreachableHostIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	enc, err := NewOpenAIEncoder(OpenAIConfig{BaseURL: server.URL, APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("NewOpenAIEncoder() error = %v", err)
	}
	if _, err := enc.Encode(context.Background(), "hello"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Encode() error = %v, want ErrUnavailable", err)
	}
}

func TestNewOpenAIEncoderValidation(t *testing.T) {
	if _, err := NewOpenAIEncoder(OpenAIConfig{APIKey: "sk-test"}); err == nil {
		t.Fatal("NewOpenAIEncoder() accepted missing base URL")
	}
	if _, err := NewOpenAIEncoder(OpenAIConfig{BaseURL: "http://localhost"}); err == nil {
		t.Fatal("NewOpenAIEncoder() accepted missing api key")
	}
}
