// Package testutil provides a fake Immich server for tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// TestAPIKey is the credential MockImmich accepts unless overridden.
const TestAPIKey = "test-api-key-7f3a"

// apiPrefix mirrors the path under which Immich mounts its REST API.
const apiPrefix = "/api"

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       []byte
	Headers    map[string]string
	Delay      time.Duration
}

// MockImmich is a configurable fake photo service. Requests without the
// expected x-api-key are answered with 401.
type MockImmich struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc
	apiKey   string

	// Tracking
	RequestCount      int
	UnauthorizedCount int
	LastRequestHeader http.Header
	LastRequestURI    string
}

// NewMockImmich starts a fake photo service accepting TestAPIKey.
func NewMockImmich() *MockImmich {
	mock := &MockImmich{
		handlers: make(map[string]http.HandlerFunc),
		apiKey:   TestAPIKey,
	}

	mock.server = httptest.NewServer(http.HandlerFunc(mock.serve))
	return mock
}

func (m *MockImmich) serve(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.RequestCount++
	m.LastRequestHeader = r.Header.Clone()
	m.LastRequestURI = r.URL.RequestURI()
	authorized := r.Header.Get("x-api-key") == m.apiKey
	if !authorized {
		m.UnauthorizedCount++
	}
	handler, exists := m.handlers[routeKey(r)]
	m.mu.Unlock()

	if !authorized {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid API key"})
		return
	}

	if exists {
		handler(w, r)
		return
	}

	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not found"})
}

// routeKey is the lookup key for a request: the path below the API prefix,
// plus the size query when one is given.
func routeKey(r *http.Request) string {
	key := strings.TrimPrefix(r.URL.Path, apiPrefix)
	if size := r.URL.Query().Get("size"); size != "" {
		key += "?size=" + size
	}
	return key
}

// URL returns the API root to configure the upstream client with.
func (m *MockImmich) URL() string {
	return m.server.URL + apiPrefix
}

// Close shuts down the mock server.
func (m *MockImmich) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockImmich) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.UnauthorizedCount = 0
	m.LastRequestHeader = nil
	m.LastRequestURI = ""
}

// SetAPIKey changes the accepted credential.
func (m *MockImmich) SetAPIKey(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apiKey = key
}

// SetHandler sets a custom handler for a path below the API root, e.g.
// "/albums" or "/assets/<id>/thumbnail?size=preview".
func (m *MockImmich) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockImmich) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			select {
			case <-time.After(resp.Delay):
			case <-r.Context().Done():
				return
			}
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if len(resp.Body) > 0 {
			w.Write(resp.Body)
		}
	})
}

// SetAlbums configures GET /albums.
func (m *MockImmich) SetAlbums(resp MockResponse) {
	m.SetResponse("/albums", resp)
}

// SetAlbum configures GET /albums/{id}.
func (m *MockImmich) SetAlbum(id string, resp MockResponse) {
	m.SetResponse("/albums/"+id, resp)
}

// SetOriginal configures GET /assets/{id}/original.
func (m *MockImmich) SetOriginal(id string, resp MockResponse) {
	m.SetResponse("/assets/"+id+"/original", resp)
}

// SetThumbnail configures GET /assets/{id}/thumbnail. size "" is the
// default variant.
func (m *MockImmich) SetThumbnail(id, size string, resp MockResponse) {
	path := "/assets/" + id + "/thumbnail"
	if size != "" {
		path += "?size=" + size
	}
	m.SetResponse(path, resp)
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockImmich) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetUnauthorizedCount returns the number of requests with a wrong key.
func (m *MockImmich) GetUnauthorizedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.UnauthorizedCount
}

// GetLastRequestHeader returns a copy of the most recent request headers.
func (m *MockImmich) GetLastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastRequestHeader.Clone()
}

// GetLastRequestURI returns the most recent request path and query.
func (m *MockImmich) GetLastRequestURI() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastRequestURI
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// NewJSONResponse creates a 200 OK JSON response.
func NewJSONResponse(body string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       []byte(body),
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewBinaryResponse creates a 200 OK response with the given bytes.
// contentType "" leaves the header unset.
func NewBinaryResponse(data []byte, contentType string) MockResponse {
	resp := MockResponse{
		StatusCode: http.StatusOK,
		Body:       data,
		Headers:    map[string]string{},
	}
	if contentType != "" {
		resp.Headers["Content-Type"] = contentType
	}
	return resp
}

// NewNotFoundResponse creates a 404 response in Immich's error shape.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       []byte(`{"message":"Not found or no asset.read access","statusCode":404}`),
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       []byte(`{"message":"Internal server error","statusCode":500}`),
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewStatusResponse creates an empty response with an arbitrary status.
func NewStatusResponse(status int) MockResponse {
	return MockResponse{StatusCode: status}
}
