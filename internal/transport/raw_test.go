package transport

import (
	"strings"
	"testing"

	"github.com/venari/venari/pkg/types"
)

func TestBuildRawRequest(t *testing.T) {
	spec := &types.RequestSpec{
		Method:  "POST",
		URL:     "https://api.example.com/login",
		Path:    "/login",
		Headers: map[string]string{"Content-Type": "application/json", "X-Trace": "1"},
		Params:  map[string]string{"debug": "true"},
		Body:    map[string]string{"user": "admin"},
	}

	raw := buildRawRequest(spec, rawBodyString(spec))
	lines := strings.Split(raw, "\n")

	if !strings.HasPrefix(lines[0], "POST /login?debug=true HTTP/1.1") {
		t.Errorf("request line = %q", lines[0])
	}
	if lines[1] != "Host: api.example.com" {
		t.Errorf("host line = %q", lines[1])
	}
	if !strings.Contains(raw, "X-Trace: 1") {
		t.Error("missing header line")
	}
	if !strings.Contains(raw, "Content-Length: ") {
		t.Error("missing Content-Length line for body")
	}
	if !strings.Contains(raw, `"user": "admin"`) {
		t.Errorf("body not rendered as indented JSON:\n%s", raw)
	}
}

func TestBuildRawRequestNoBody(t *testing.T) {
	spec := &types.RequestSpec{
		Method: "GET",
		URL:    "http://api.example.com/users",
		Path:   "/users",
	}

	raw := buildRawRequest(spec, "")
	if strings.Contains(raw, "Content-Length") {
		t.Error("bodyless request must not carry Content-Length")
	}
	if !strings.HasSuffix(raw, "\n") {
		t.Errorf("raw request must end with a blank line: %q", raw)
	}
}

func TestBuildRawResponseTruncatesBody(t *testing.T) {
	body := []byte(strings.Repeat("z", 2000))
	raw := buildRawResponse(200, map[string]string{"Server": "demo"}, body)

	if !strings.HasPrefix(raw, "HTTP/1.1 200 OK") {
		t.Errorf("status line = %q", strings.SplitN(raw, "\n", 2)[0])
	}
	if strings.Count(raw, "z") != rawResponseBodyLimit {
		t.Errorf("body not truncated to %d characters", rawResponseBodyLimit)
	}
}

func TestBuildRawResponseIndentsJSON(t *testing.T) {
	raw := buildRawResponse(200,
		map[string]string{"Content-Type": "application/json"},
		[]byte(`{"a":1}`))

	if !strings.Contains(raw, "\"a\": 1") {
		t.Errorf("JSON body not re-indented:\n%s", raw)
	}
}

func TestEncodeBodyForm(t *testing.T) {
	spec := &types.RequestSpec{
		Headers: map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
		Body:    map[string]string{"b": "2", "a": "1"},
	}

	data, ct, err := encodeBody(spec)
	if err != nil {
		t.Fatalf("encodeBody failed: %v", err)
	}
	if ct != "" {
		t.Errorf("unexpected content type override %q", ct)
	}
	if string(data) != "a=1&b=2" {
		t.Errorf("encoded form = %q", data)
	}
}

func TestEncodeBodyMultipart(t *testing.T) {
	spec := &types.RequestSpec{
		Headers: map[string]string{"Content-Type": "multipart/form-data"},
		Body: []types.MultipartPart{
			{Name: "file", Filename: "a.txt", Data: []byte("content")},
			{Name: "note", Data: []byte("hello")},
		},
	}

	data, ct, err := encodeBody(spec)
	if err != nil {
		t.Fatalf("encodeBody failed: %v", err)
	}
	if !strings.HasPrefix(ct, "multipart/form-data; boundary=") {
		t.Errorf("content type override = %q", ct)
	}
	if !strings.Contains(string(data), `filename="a.txt"`) {
		t.Error("missing file part")
	}
	if !strings.Contains(string(data), "hello") {
		t.Error("missing field part")
	}
}

func TestEncodeBodyRawPassthrough(t *testing.T) {
	spec := &types.RequestSpec{Body: "plain text"}

	data, _, err := encodeBody(spec)
	if err != nil {
		t.Fatalf("encodeBody failed: %v", err)
	}
	if string(data) != "plain text" {
		t.Errorf("encoded = %q", data)
	}
}

func TestEncodeBodyNil(t *testing.T) {
	data, ct, err := encodeBody(&types.RequestSpec{})
	if err != nil || data != nil || ct != "" {
		t.Errorf("nil body: data=%v ct=%q err=%v", data, ct, err)
	}
}
