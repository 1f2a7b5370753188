package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/venari/venari/pkg/types"
)

// rawResponseBodyLimit caps the body length in reconstructed responses
const rawResponseBodyLimit = 1000

// buildRawRequest reconstructs the request as a readable HTTP/1.1
// packet for forensic display. It is best effort, not guaranteed
// byte-identical to what the client put on the wire.
func buildRawRequest(spec *types.RequestSpec, bodyStr string) string {
	path := spec.URL
	host := ""
	if u, err := url.Parse(spec.URL); err == nil {
		path = u.Path
		if path == "" {
			path = "/"
		}
		if u.RawQuery != "" {
			path += "?" + u.RawQuery
		}
		host = u.Host
	}
	if len(spec.Params) > 0 {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		path += sep + formEncode(spec.Params)
	}

	lines := []string{fmt.Sprintf("%s %s HTTP/1.1", spec.Method, path)}
	lines = append(lines, "Host: "+host)
	for _, key := range sortedKeys(spec.Headers) {
		lines = append(lines, key+": "+spec.Headers[key])
	}

	if spec.Body != nil {
		lines = append(lines, fmt.Sprintf("Content-Length: %d", len(bodyStr)))
		lines = append(lines, "", bodyStr)
	} else {
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// rawBodyString renders the request body the way the raw packet shows
// it: JSON indented, maps form-encoded, everything else as-is
func rawBodyString(spec *types.RequestSpec) string {
	if spec.Body == nil {
		return ""
	}

	declared := headerValue(spec.Headers, "Content-Type")
	if strings.Contains(declared, "application/json") {
		if data, err := json.MarshalIndent(spec.Body, "", "  "); err == nil {
			return string(data)
		}
	}

	switch v := spec.Body.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case map[string]string:
		return formEncode(v)
	case []types.MultipartPart:
		names := make([]string, len(v))
		for i, part := range v {
			names[i] = part.Name
		}
		return fmt.Sprintf("<multipart: %s>", strings.Join(names, ", "))
	default:
		return fmt.Sprint(v)
	}
}

// buildRawResponse reconstructs the response analogously, with the body
// truncated for display
func buildRawResponse(status int, headers map[string]string, body []byte) string {
	lines := []string{fmt.Sprintf("HTTP/1.1 %d %s", status, http.StatusText(status))}
	for _, key := range sortedKeys(headers) {
		lines = append(lines, key+": "+headers[key])
	}
	lines = append(lines, "")

	bodyStr := ""
	if strings.Contains(headerValue(headers, "Content-Type"), "application/json") {
		var value any
		if err := json.Unmarshal(body, &value); err == nil {
			if data, merr := json.MarshalIndent(value, "", "  "); merr == nil {
				bodyStr = string(data)
			}
		}
	}
	if bodyStr == "" {
		bodyStr = string(body)
		if len(bodyStr) > rawResponseBodyLimit {
			bodyStr = bodyStr[:rawResponseBodyLimit]
		}
	}
	lines = append(lines, bodyStr)

	return strings.Join(lines, "\n")
}
