package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/url"
	"sort"
	"strings"

	"github.com/venari/venari/pkg/types"
)

// encodeBody encodes the request body according to the declared
// Content-Type. The returned content type, when non-empty, overrides the
// declared header (multipart needs the generated boundary).
func encodeBody(spec *types.RequestSpec) ([]byte, string, error) {
	if spec.Body == nil {
		return nil, "", nil
	}

	declared := headerValue(spec.Headers, "Content-Type")

	switch {
	case strings.Contains(declared, "application/json"):
		return encodeJSON(spec.Body)
	case strings.Contains(declared, "application/x-www-form-urlencoded"):
		return encodeForm(spec.Body)
	case strings.Contains(declared, "multipart/form-data"):
		return encodeMultipart(spec.Body)
	default:
		return encodeRaw(spec.Body)
	}
}

func encodeJSON(body any) ([]byte, string, error) {
	switch v := body.(type) {
	case string:
		return []byte(v), "", nil
	case []byte:
		return v, "", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("encode json body: %w", err)
		}
		return data, "", nil
	}
}

func encodeForm(body any) ([]byte, string, error) {
	switch v := body.(type) {
	case string:
		return []byte(v), "", nil
	case []byte:
		return v, "", nil
	case map[string]string:
		return []byte(formEncode(v)), "", nil
	default:
		return nil, "", fmt.Errorf("form body must be a string or map, got %T", body)
	}
}

func encodeMultipart(body any) ([]byte, string, error) {
	parts, ok := body.([]types.MultipartPart)
	if !ok {
		return nil, "", fmt.Errorf("multipart body must be []MultipartPart, got %T", body)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, part := range parts {
		var err error
		var field interface{ Write([]byte) (int, error) }
		if part.Filename != "" {
			field, err = writer.CreateFormFile(part.Name, part.Filename)
		} else {
			field, err = writer.CreateFormField(part.Name)
		}
		if err != nil {
			return nil, "", fmt.Errorf("encode multipart body: %w", err)
		}
		if _, err := field.Write(part.Data); err != nil {
			return nil, "", fmt.Errorf("encode multipart body: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("encode multipart body: %w", err)
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}

func encodeRaw(body any) ([]byte, string, error) {
	switch v := body.(type) {
	case string:
		return []byte(v), "", nil
	case []byte:
		return v, "", nil
	case map[string]string:
		return []byte(formEncode(v)), "", nil
	default:
		return []byte(fmt.Sprint(v)), "", nil
	}
}

// formEncode renders a map as application/x-www-form-urlencoded with
// deterministic key order
func formEncode(fields map[string]string) string {
	values := url.Values{}
	for key, value := range fields {
		values.Set(key, value)
	}
	return values.Encode()
}

// sortedKeys returns map keys in lexical order for stable output
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
