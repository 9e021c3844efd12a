package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/woodycollective/woodyswildguess/internal/huggingface"
)

// MockHuggingFaceServer represents a mock Hugging Face inference API server.
// Responses are configured per model path; unconfigured models answer with
// an empty score matrix.
type MockHuggingFaceServer struct {
	Server *httptest.Server

	mu        sync.Mutex
	responses map[string][][]huggingface.LabelScore
	statuses  map[string]int
	calls     map[string]int
}

// NewMockHuggingFaceServer creates a new mock inference API server.
func NewMockHuggingFaceServer() *MockHuggingFaceServer {
	mhs := &MockHuggingFaceServer{
		responses: make(map[string][][]huggingface.LabelScore),
		statuses:  make(map[string]int),
		calls:     make(map[string]int),
	}

	mhs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var body struct {
			Inputs string `json:"inputs"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Inputs == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		mhs.mu.Lock()
		defer mhs.mu.Unlock()

		path := r.URL.Path
		mhs.calls[path]++

		if status, ok := mhs.statuses[path]; ok {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":"model unavailable"}`))
			return
		}

		scores, ok := mhs.responses[path]
		if !ok {
			scores = [][]huggingface.LabelScore{}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(scores)
	}))

	return mhs
}

func modelPath(model huggingface.Model) string {
	return "/models/" + model.Namespace + "/" + model.Name
}

// SetResponse configures the score matrix a model answers with.
func (mhs *MockHuggingFaceServer) SetResponse(model huggingface.Model, scores [][]huggingface.LabelScore) {
	mhs.mu.Lock()
	defer mhs.mu.Unlock()
	mhs.responses[modelPath(model)] = scores
	delete(mhs.statuses, modelPath(model))
}

// SetStatus makes a model answer with a bare status code instead of scores.
func (mhs *MockHuggingFaceServer) SetStatus(model huggingface.Model, status int) {
	mhs.mu.Lock()
	defer mhs.mu.Unlock()
	mhs.statuses[modelPath(model)] = status
}

// Calls returns how many times a model endpoint was hit.
func (mhs *MockHuggingFaceServer) Calls(model huggingface.Model) int {
	mhs.mu.Lock()
	defer mhs.mu.Unlock()
	return mhs.calls[modelPath(model)]
}

// Close closes the mock server.
func (mhs *MockHuggingFaceServer) Close() {
	if mhs.Server != nil {
		mhs.Server.Close()
	}
}

// URL returns the mock server's base URL.
func (mhs *MockHuggingFaceServer) URL() string {
	return mhs.Server.URL
}
