package transport

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/venari/venari/pkg/types"
)

func testConfig() *types.Config {
	cfg := types.DefaultConfig()
	cfg.Request.Retry = 1
	return cfg
}

func newTestClient(t *testing.T, cfg *types.Config) *Client {
	t.Helper()
	client, err := NewClient(cfg, nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestClientExecuteSuccess(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"user":"alice"}`))
	}))
	defer server.Close()

	client := newTestClient(t, testConfig())
	result := client.Execute(&types.RequestSpec{
		Method: "GET",
		URL:    server.URL + "/users",
		Path:   "/users",
	})

	if result.StatusCode != 200 {
		t.Errorf("status = %d, expected 200", result.StatusCode)
	}
	if !result.Success {
		t.Error("expected success for status 200")
	}
	if result.Error != "" {
		t.Errorf("unexpected error: %s", result.Error)
	}
	if result.ResponseLength != len(`{"user":"alice"}`) {
		t.Errorf("response length = %d", result.ResponseLength)
	}
	if n := atomic.LoadInt32(&attempts); n != 1 {
		t.Errorf("attempts = %d, expected exactly 1", n)
	}

	body, ok := result.ResponseBody.(map[string]any)
	if !ok {
		t.Fatalf("expected structured JSON body, got %T", result.ResponseBody)
	}
	if body["user"] != "alice" {
		t.Errorf("body = %v", body)
	}
}

func TestClientExecuteHTTPErrorIsTerminal(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.Request.Retry = 3
	client := newTestClient(t, cfg)
	result := client.Execute(&types.RequestSpec{Method: "GET", URL: server.URL, Path: "/"})

	if result.StatusCode != 500 {
		t.Errorf("status = %d, expected 500", result.StatusCode)
	}
	if result.Success {
		t.Error("status 500 must not be success")
	}
	if result.Error != "" {
		t.Errorf("HTTP errors are responses, not transport errors: %s", result.Error)
	}
	if n := atomic.LoadInt32(&attempts); n != 1 {
		t.Errorf("attempts = %d, HTTP error codes must not be retried", n)
	}
}

func TestClientExecuteRetriesTransportFailure(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Error("server does not support hijacking")
			return
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			t.Errorf("hijack failed: %v", err)
			return
		}
		conn.Close()
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.Request.Retry = 1
	client := newTestClient(t, cfg)
	result := client.Execute(&types.RequestSpec{Method: "GET", URL: server.URL, Path: "/"})

	if result.StatusCode != 0 {
		t.Errorf("status = %d, expected 0 sentinel", result.StatusCode)
	}
	if result.Error == "" {
		t.Error("expected error message for transport failure")
	}
	if result.Success {
		t.Error("transport failure must not be success")
	}
	if result.ResponseLength != 0 {
		t.Errorf("response length = %d, expected 0", result.ResponseLength)
	}
	if result.RawResponse != "" {
		t.Error("raw response must be empty when no response was received")
	}
	if n := atomic.LoadInt32(&attempts); n != 2 {
		t.Errorf("attempts = %d, expected retry+1 = 2", n)
	}
}

func TestClientExecuteSendsHeadersAndParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Api-Key"); got != "secret" {
			t.Errorf("X-Api-Key = %q", got)
		}
		if got := r.URL.Query().Get("id"); got != "42" {
			t.Errorf("id param = %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, testConfig())
	result := client.Execute(&types.RequestSpec{
		Method:  "GET",
		URL:     server.URL + "/items",
		Path:    "/items",
		Headers: map[string]string{"X-Api-Key": "secret"},
		Params:  map[string]string{"id": "42"},
	})

	if result.StatusCode != 200 {
		t.Errorf("status = %d", result.StatusCode)
	}
}

func TestClientExecuteEncodesJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"name":"bob"`) {
			t.Errorf("body = %s", body)
		}
		if ct := r.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
			t.Errorf("content type = %q", ct)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := newTestClient(t, testConfig())
	result := client.Execute(&types.RequestSpec{
		Method:  "POST",
		URL:     server.URL + "/users",
		Path:    "/users",
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    map[string]string{"name": "bob"},
	})

	if result.StatusCode != 201 {
		t.Errorf("status = %d", result.StatusCode)
	}
}

func TestDebugCaptureWritesArtifacts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("hello"))
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.Debug.Enabled = true
	cfg.Debug.SaveRequests = true
	cfg.Debug.SaveResponses = true
	cfg.Logging.LogDir = t.TempDir()

	client := newTestClient(t, cfg)
	client.Execute(&types.RequestSpec{Method: "GET", URL: server.URL, Path: "/"})

	debugDir := filepath.Join(cfg.Logging.LogDir, "debug")
	requests, _ := filepath.Glob(filepath.Join(debugDir, "*_request.txt"))
	responses, _ := filepath.Glob(filepath.Join(debugDir, "*_response.txt"))

	if len(requests) != 1 {
		t.Errorf("request artifacts = %d, expected 1", len(requests))
	}
	if len(responses) != 1 {
		t.Errorf("response artifacts = %d, expected 1", len(responses))
	}

	if len(requests) == 1 {
		data, err := os.ReadFile(requests[0])
		if err != nil {
			t.Fatalf("reading artifact: %v", err)
		}
		if !strings.HasPrefix(string(data), "GET ") {
			t.Errorf("request artifact does not start with request line: %q", data)
		}
	}
}

func TestResolveURLMergesParams(t *testing.T) {
	spec := &types.RequestSpec{
		URL:    "http://example.com/search?q=base",
		Params: map[string]string{"page": "2"},
	}

	resolved, err := resolveURL(spec)
	if err != nil {
		t.Fatalf("resolveURL failed: %v", err)
	}
	if !strings.Contains(resolved, "q=base") || !strings.Contains(resolved, "page=2") {
		t.Errorf("resolved = %s", resolved)
	}
}

func TestSanitizeURL(t *testing.T) {
	got := sanitizeURL("https://example.com/api/v1/users?id=1")
	if strings.ContainsAny(got, ":/?") {
		t.Errorf("sanitized URL still has separators: %q", got)
	}

	long := "https://example.com/" + strings.Repeat("a", 100)
	if got := sanitizeURL(long); len(got) != 50 {
		t.Errorf("sanitized length = %d, expected 50", len(got))
	}
}
