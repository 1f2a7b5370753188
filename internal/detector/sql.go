package detector

import (
	"bufio"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/venari/venari/pkg/types"
)

// builtinErrorPatterns are cross-database error fragments used when no
// signature file is configured or the file cannot be read
var builtinErrorPatterns = []string{
	"You have an error in your SQL syntax",
	"MySQL server version for the right syntax to use",
	"Unclosed quotation mark",
	"Incorrect syntax near",
	"Syntax error",
	"SQL syntax",
	"database error",
	"SQL Error",
	`ORA-\d+`,
	"SQLSTATE",
	"pg_query",
	"mysql_fetch",
	"SQLException",
	"数据库出错",
	"SQL错误",
	"语法错误",
}

// sqlPattern pairs an original signature string with its compiled form.
// Whether the signature compiled as a regex or fell back to a literal
// is decided once at load, never per match.
type sqlPattern struct {
	raw     string
	re      *regexp.Regexp
	literal bool
}

// SQLDetector detects SQL injection signals: error signatures in a
// response body and differential anomalies against a baseline.
type SQLDetector struct {
	cfg      types.SQLSettings
	patterns []sqlPattern
}

// NewSQLDetector loads and compiles the error signature set.
// Construction never fails: missing files fall back to the built-in
// list and malformed regexes become literal-substring matches.
func NewSQLDetector(cfg types.SQLSettings) *SQLDetector {
	raw := loadErrorPatterns(cfg.ErrorFile)

	patterns := make([]sqlPattern, 0, len(raw))
	for _, p := range raw {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(p))
			patterns = append(patterns, sqlPattern{raw: p, re: re, literal: true})
			continue
		}
		patterns = append(patterns, sqlPattern{raw: p, re: re})
	}

	return &SQLDetector{cfg: cfg, patterns: patterns}
}

// loadErrorPatterns reads one signature per non-empty, non-comment line
func loadErrorPatterns(path string) []string {
	if path == "" {
		return builtinErrorPatterns
	}

	file, err := os.Open(path)
	if err != nil {
		log.Printf("SQL error signature file %s unavailable, using built-in patterns: %v", path, err)
		return builtinErrorPatterns
	}
	defer file.Close()

	var patterns []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		log.Printf("reading SQL error signature file %s failed, using built-in patterns: %v", path, err)
		return builtinErrorPatterns
	}
	if len(patterns) == 0 {
		return builtinErrorPatterns
	}
	return patterns
}

// PatternCount returns the number of compiled signatures
func (d *SQLDetector) PatternCount() int {
	return len(d.patterns)
}

// DetectError scans a response body for SQL error signatures. The
// matched list holds the original signature strings, de-duplicated, in
// pattern-list order.
func (d *SQLDetector) DetectError(body string) (bool, []string) {
	if !d.cfg.DetectErrors {
		return false, nil
	}

	var matched []string
	seen := make(map[string]bool)
	for _, p := range d.patterns {
		if !p.re.MatchString(body) {
			continue
		}
		if seen[p.raw] {
			continue
		}
		seen[p.raw] = true
		matched = append(matched, p.raw)
	}

	return len(matched) > 0, matched
}

// AnalyzeDiff compares a fuzzed exchange with its baseline. Content
// comparison is exact string inequality; the configured similarity
// threshold is accepted but not consulted.
func (d *SQLDetector) AnalyzeDiff(base types.Baseline, result *types.ExchangeResult) types.DiffResult {
	if !d.cfg.DetectDiff {
		return types.DiffResult{}
	}

	var diff types.DiffResult

	if base.StatusCode != result.StatusCode {
		diff.StatusCodeDiff = true
		diff.HasDiff = true
	}

	baseBody := base.ResponseBody
	fuzzBody := result.BodyText()

	lengthDelta := len(baseBody) - len(fuzzBody)
	if lengthDelta < 0 {
		lengthDelta = -lengthDelta
	}
	diff.LengthDiff = lengthDelta

	if lengthDelta > d.cfg.DiffThreshold {
		diff.SignificantDiff = true
		diff.HasDiff = true
	}

	if baseBody != fuzzBody {
		diff.ContentDiff = true
		diff.HasDiff = true
	}

	return diff
}

// RiskScore turns the combined detection signals into a score in
// [0, 100]
func (d *SQLDetector) RiskScore(det types.SQLDetection) int {
	score := 0

	if det.HasSQLError {
		score += 50
		// Additional matched signatures add confidence, capped
		bonus := len(det.MatchedErrors) * 5
		if bonus > 20 {
			bonus = 20
		}
		score += bonus
	}

	if det.Diff.SignificantDiff {
		score += 30
	}
	if det.Diff.StatusCodeDiff {
		score += 10
	}
	if det.Diff.LengthDiff > 0 {
		score += 10
	}

	if score > 100 {
		score = 100
	}
	return score
}
