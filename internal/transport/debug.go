package transport

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/venari/venari/pkg/types"
)

// sanitizedURLLimit caps the URL fragment embedded in debug filenames
const sanitizedURLLimit = 50

// debugWriter saves raw request/response packets for forensic replay.
// A nil *debugWriter is valid and captures nothing.
type debugWriter struct {
	dir           string
	saveRequests  bool
	saveResponses bool
}

// newDebugWriter returns nil when capture is disabled. Failing to
// create the debug directory is the one fatal setup error the
// transport propagates.
func newDebugWriter(cfg *types.Config) (*debugWriter, error) {
	if !cfg.Debug.Enabled || (!cfg.Debug.SaveRequests && !cfg.Debug.SaveResponses) {
		return nil, nil
	}

	dir := filepath.Join(cfg.Logging.LogDir, "debug")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create debug directory: %w", err)
	}

	return &debugWriter{
		dir:           dir,
		saveRequests:  cfg.Debug.SaveRequests,
		saveResponses: cfg.Debug.SaveResponses,
	}, nil
}

// capture writes the raw packets of one exchange. Write failures are
// logged and swallowed; they never affect the exchange result.
func (w *debugWriter) capture(result *types.ExchangeResult) {
	if w == nil {
		return
	}

	now := time.Now()
	base := fmt.Sprintf("%s_%06d_%s_%d_%s",
		now.Format("20060102_150405"), now.Nanosecond()/1000,
		result.Method, result.StatusCode, sanitizeURL(result.URL))

	if w.saveRequests {
		w.write(base+"_request.txt", result.RawRequest)
	}
	if w.saveResponses {
		w.write(base+"_response.txt", result.RawResponse)
	}
}

func (w *debugWriter) write(name, content string) {
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		log.Printf("failed to save debug artifact %s: %v", path, err)
	}
}

// sanitizeURL turns a URL into a filesystem-safe fragment
func sanitizeURL(raw string) string {
	replacer := strings.NewReplacer("://", "_", "/", "_", "?", "_")
	safe := replacer.Replace(raw)
	if len(safe) > sanitizedURLLimit {
		safe = safe[:sanitizedURLLimit]
	}
	return safe
}
