package types

// Config represents the application configuration
type Config struct {
	// Target settings
	Target TargetSettings `yaml:"target" mapstructure:"target"`

	// Request settings
	Request RequestSettings `yaml:"request" mapstructure:"request"`

	// Proxy settings
	Proxy ProxySettings `yaml:"proxy" mapstructure:"proxy"`

	// Debug capture settings
	Debug DebugSettings `yaml:"debug" mapstructure:"debug"`

	// Logging settings
	Logging LoggingSettings `yaml:"logging" mapstructure:"logging"`

	// Auth-bypass detection settings
	Detection DetectionSettings `yaml:"detection" mapstructure:"detection"`

	// SQL injection detection settings
	SQL SQLSettings `yaml:"sql" mapstructure:"sql"`

	// Metrics settings
	Metrics MetricsSettings `yaml:"metrics" mapstructure:"metrics"`
}

// TargetSettings holds target endpoint configuration
type TargetSettings struct {
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	Timeout   float64 `yaml:"timeout" mapstructure:"timeout"` // seconds
	VerifySSL bool    `yaml:"verify_ssl" mapstructure:"verify_ssl"`
}

// RequestSettings holds per-exchange transport configuration
type RequestSettings struct {
	Threads   int     `yaml:"threads" mapstructure:"threads"`
	Retry     int     `yaml:"retry" mapstructure:"retry"` // additional attempts on transport failure
	Delay     float64 `yaml:"delay" mapstructure:"delay"` // pre-send delay in seconds
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second, 0 = unlimited
}

// ProxySettings holds outbound proxy configuration.
// The blocking client honors both URLs by scheme; the async client
// supports a single proxy and prefers HTTP, falling back to HTTPS.
type ProxySettings struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	HTTP    string `yaml:"http" mapstructure:"http"`
	HTTPS   string `yaml:"https" mapstructure:"https"`
}

// DebugSettings holds raw request/response capture configuration
type DebugSettings struct {
	Enabled       bool `yaml:"enabled" mapstructure:"enabled"`
	SaveRequests  bool `yaml:"save_requests" mapstructure:"save_requests"`
	SaveResponses bool `yaml:"save_responses" mapstructure:"save_responses"`
}

// LoggingSettings holds log output configuration
type LoggingSettings struct {
	LogDir string `yaml:"log_dir" mapstructure:"log_dir"`
	Level  string `yaml:"level" mapstructure:"level"`
}

// DetectionSettings holds auth-bypass scorer configuration
type DetectionSettings struct {
	Enabled                bool     `yaml:"enabled" mapstructure:"enabled"`
	SuccessStatusCodes     []int    `yaml:"success_status_codes" mapstructure:"success_status_codes"`
	AuthStatusCodes        []int    `yaml:"auth_status_codes" mapstructure:"auth_status_codes"`
	LengthDiffThreshold    float64  `yaml:"length_diff_threshold" mapstructure:"length_diff_threshold"` // percent
	TimeDiffThreshold      float64  `yaml:"time_diff_threshold" mapstructure:"time_diff_threshold"`     // ratio
	SuccessKeywords        []string `yaml:"success_keywords" mapstructure:"success_keywords"`
	FailureKeywords        []string `yaml:"failure_keywords" mapstructure:"failure_keywords"`
	ScoreThresholdPossible int      `yaml:"score_threshold_possible" mapstructure:"score_threshold_possible"`
	ScoreThresholdLikely   int      `yaml:"score_threshold_likely" mapstructure:"score_threshold_likely"`

	// Consumed by the reporting layer, carried here for completeness
	FilterStatusCodes []int `yaml:"filter_status_codes" mapstructure:"filter_status_codes"`
	FuzzFilterCodes   []int `yaml:"fuzz_filter_codes" mapstructure:"fuzz_filter_codes"`
}

// SQLSettings holds SQL injection detector configuration
type SQLSettings struct {
	ErrorFile     string `yaml:"error_file" mapstructure:"error_file"`
	MaxPayloads   int    `yaml:"max_payloads" mapstructure:"max_payloads"`
	DetectErrors  bool   `yaml:"detect_errors" mapstructure:"detect_errors"`
	DetectDiff    bool   `yaml:"detect_diff" mapstructure:"detect_diff"`
	DiffThreshold int    `yaml:"diff_threshold" mapstructure:"diff_threshold"` // bytes

	// Accepted but not consulted by the diff comparison, which uses
	// exact body inequality. Kept so existing config files round-trip.
	SimilarityThreshold float64 `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
}

// MetricsSettings holds Prometheus instrumentation configuration
type MetricsSettings struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Addr    string `yaml:"addr" mapstructure:"addr"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Target: TargetSettings{
			Timeout:   10,
			VerifySSL: false,
		},
		Request: RequestSettings{
			Threads:   5,
			Retry:     1,
			Delay:     0,
			RateLimit: 0,
		},
		Proxy: ProxySettings{
			Enabled: false,
		},
		Debug: DebugSettings{
			Enabled:       false,
			SaveRequests:  false,
			SaveResponses: false,
		},
		Logging: LoggingSettings{
			LogDir: "logs",
			Level:  "info",
		},
		Detection: DetectionSettings{
			Enabled:                true,
			SuccessStatusCodes:     []int{200, 201, 202},
			AuthStatusCodes:        []int{401, 403},
			LengthDiffThreshold:    20,
			TimeDiffThreshold:      2.0,
			SuccessKeywords:        []string{},
			FailureKeywords:        []string{},
			ScoreThresholdPossible: 50,
			ScoreThresholdLikely:   70,
		},
		SQL: SQLSettings{
			ErrorFile:           "config/sql_errors.txt",
			MaxPayloads:         20,
			DetectErrors:        true,
			DetectDiff:          true,
			DiffThreshold:       100,
			SimilarityThreshold: 0.7,
		},
		Metrics: MetricsSettings{
			Enabled: false,
			Addr:    "127.0.0.1:9090",
		},
	}
}
