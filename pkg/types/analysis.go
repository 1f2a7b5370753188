package types

// Classification levels for auth-bypass analysis
const (
	LevelUnlikely = "unlikely"
	LevelPossible = "possible"
	LevelLikely   = "likely"
)

// Analysis is the auth-bypass scorer verdict for one fuzzed exchange.
// The score is additive and unclamped; classification uses only the
// configured thresholds.
type Analysis struct {
	Score   int      `json:"score"`
	Level   string   `json:"level"`
	Label   string   `json:"label"`
	Reasons []string `json:"reasons"`

	FuzzTarget string `json:"fuzz_target"`
	FuzzValue  string `json:"fuzz_value"`

	StatusCode     int `json:"status_code"`
	BaselineStatus int `json:"baseline_status"`
	ResponseLength int `json:"response_length"`
	BaselineLength int `json:"baseline_length"`
}

// DiffResult describes how a fuzzed response differs from its baseline
type DiffResult struct {
	HasDiff         bool `json:"has_diff"`
	StatusCodeDiff  bool `json:"status_code_diff"`
	LengthDiff      int  `json:"length_diff"`
	ContentDiff     bool `json:"content_diff"`
	SignificantDiff bool `json:"significant_diff"`
}

// SQLDetection aggregates the SQL injection signals for one exchange
type SQLDetection struct {
	HasSQLError   bool       `json:"has_sql_error"`
	MatchedErrors []string   `json:"matched_errors"`
	Diff          DiffResult `json:"diff_result"`
	RiskScore     int        `json:"risk_score"`
}
