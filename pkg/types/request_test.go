package types

import "testing"

func TestRequestSpecKey(t *testing.T) {
	spec := &RequestSpec{Method: "GET", Path: "/users/{id}"}
	if got := spec.Key(); got != "GET:/users/{id}" {
		t.Errorf("Key() = %q", got)
	}
}

func TestBodyText(t *testing.T) {
	cases := []struct {
		name string
		body any
		want string
	}{
		{"nil", nil, ""},
		{"string", "plain", "plain"},
		{"bytes", []byte("raw"), "raw"},
		{"map", map[string]any{"role": "admin"}, `{"role":"admin"}`},
		{"slice", []any{1.0, 2.0}, "[1,2]"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := &ExchangeResult{ResponseBody: tc.body}
			if got := result.BodyText(); got != tc.want {
				t.Errorf("BodyText() = %q, expected %q", got, tc.want)
			}
		})
	}
}

func TestNewBaseline(t *testing.T) {
	result := &ExchangeResult{
		StatusCode:     404,
		ResponseLength: 50,
		ResponseTime:   0.25,
		ResponseBody:   map[string]any{"error": "not found"},
	}

	base := NewBaseline(result)
	if base.StatusCode != 404 || base.ResponseLength != 50 || base.ResponseTime != 0.25 {
		t.Errorf("baseline = %+v", base)
	}
	if base.ResponseBody != `{"error":"not found"}` {
		t.Errorf("body = %q", base.ResponseBody)
	}
}
