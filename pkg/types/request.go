package types

import (
	"encoding/json"
	"fmt"
)

// MultipartPart is one part of a multipart/form-data request body
type MultipartPart struct {
	Name     string
	Filename string
	Data     []byte
}

// RequestSpec is a fully resolved description of one HTTP exchange.
// It is immutable once constructed and owned by the caller that built
// it; the transport never mutates it.
type RequestSpec struct {
	Method  string
	URL     string
	Headers map[string]string
	Params  map[string]string

	// Body is nil, a string, a []byte, a map (JSON or form), or a
	// []MultipartPart. Encoding is selected by the declared
	// Content-Type header.
	Body any

	// Path is the logical API path, independent of fuzz-mutated
	// values, used to correlate an exchange with its baseline.
	Path string

	// Fuzz metadata echoed into analysis output
	FuzzTarget string
	FuzzValue  string
}

// Key returns the endpoint identity used for baseline correlation
func (s *RequestSpec) Key() string {
	return s.Method + ":" + s.Path
}

// ExchangeResult is the canonical output of one transport invocation.
// A status code of 0 means no response was received; Error is set only
// in that case.
type ExchangeResult struct {
	Request *RequestSpec

	Method string
	URL    string

	StatusCode      int
	ResponseLength  int
	ResponseTime    float64 // seconds, wall clock across all attempts
	ResponseHeaders map[string]string

	// ResponseBody is a decoded JSON value when the response declares
	// a JSON content type, otherwise the raw body text.
	ResponseBody any

	Error   string
	Success bool

	RawRequest  string
	RawResponse string
}

// BodyText returns the response body as text, re-serializing
// structured bodies to JSON
func (r *ExchangeResult) BodyText() string {
	return bodyText(r.ResponseBody)
}

func bodyText(body any) string {
	switch v := body.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		if data, err := json.Marshal(v); err == nil {
			return string(data)
		}
		return fmt.Sprintf("%v", v)
	}
}

// Baseline is the reduced snapshot of a reference exchange kept per
// endpoint for comparison against fuzzed exchanges
type Baseline struct {
	StatusCode     int
	ResponseLength int
	ResponseTime   float64
	ResponseBody   string
}

// NewBaseline reduces an exchange result to its baseline snapshot
func NewBaseline(result *ExchangeResult) Baseline {
	return Baseline{
		StatusCode:     result.StatusCode,
		ResponseLength: result.ResponseLength,
		ResponseTime:   result.ResponseTime,
		ResponseBody:   result.BodyText(),
	}
}
