package baseline

import (
	"testing"

	"github.com/venari/venari/pkg/types"
)

func TestRegistrySetGet(t *testing.T) {
	registry := NewRegistry()

	result := &types.ExchangeResult{
		StatusCode:     404,
		ResponseLength: 50,
		ResponseTime:   0.1,
		ResponseBody:   "not found",
	}
	registry.Set("GET:/users/{id}", result)

	base, ok := registry.Get("GET:/users/{id}")
	if !ok {
		t.Fatal("baseline not found after Set")
	}
	if base.StatusCode != 404 {
		t.Errorf("status = %d", base.StatusCode)
	}
	if base.ResponseLength != 50 {
		t.Errorf("length = %d", base.ResponseLength)
	}
	if base.ResponseBody != "not found" {
		t.Errorf("body = %q", base.ResponseBody)
	}
}

func TestRegistryGetMissing(t *testing.T) {
	registry := NewRegistry()

	if _, ok := registry.Get("GET:/missing"); ok {
		t.Error("expected no baseline for unknown key")
	}
}

func TestRegistryOverwriteLastWriterWins(t *testing.T) {
	registry := NewRegistry()

	registry.Set("POST:/login", &types.ExchangeResult{StatusCode: 401})
	registry.Set("POST:/login", &types.ExchangeResult{StatusCode: 200})

	base, ok := registry.Get("POST:/login")
	if !ok {
		t.Fatal("baseline not found")
	}
	if base.StatusCode != 200 {
		t.Errorf("status = %d, a later Set must overwrite", base.StatusCode)
	}
	if registry.Len() != 1 {
		t.Errorf("len = %d, expected 1", registry.Len())
	}
}

func TestRegistryReducesStructuredBody(t *testing.T) {
	registry := NewRegistry()

	registry.Set("GET:/me", &types.ExchangeResult{
		StatusCode:   200,
		ResponseBody: map[string]any{"role": "admin"},
	})

	base, _ := registry.Get("GET:/me")
	if base.ResponseBody != `{"role":"admin"}` {
		t.Errorf("body = %q, expected JSON text", base.ResponseBody)
	}
}
