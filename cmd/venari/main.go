// Package main is the entry point for the venari CLI
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/venari/venari/internal/baseline"
	appconfig "github.com/venari/venari/internal/config"
	"github.com/venari/venari/internal/detector"
	"github.com/venari/venari/internal/metrics"
	"github.com/venari/venari/internal/transport"
	"github.com/venari/venari/pkg/types"
)

var (
	version = "1.0.0"
	cfgFile string
	config  *types.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "venari",
	Short: "Venari - API fuzz transport and anomaly detection engine",
	Long: `Venari (Latin: "to hunt") executes fuzzed HTTP exchanges against a
target endpoint, captures a faithful record of each exchange, and
classifies responses against a previously captured baseline as benign,
an auth-bypass signal, or a SQL injection signal.

Payload generation, campaign scheduling, and report rendering live in
the surrounding tooling; venari is the request-execute and signal-score
core.`,
	Version: version,
}

var probeCmd = &cobra.Command{
	Use:   "probe [url]",
	Short: "Send one exchange and print the captured result",
	Args:  cobra.ExactArgs(1),
	RunE:  runProbe,
}

var diffCmd = &cobra.Command{
	Use:   "diff [url]",
	Short: "Capture a baseline, send a fuzzed variant, and score the pair",
	Long: `Sends the request once unmodified to capture the baseline, then again
with the named parameter replaced by the fuzz value, and prints the
auth-bypass analysis and SQL injection verdict for the pair.`,
	Args: cobra.ExactArgs(1),
	RunE: runDiff,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.venari.yaml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	for _, cmd := range []*cobra.Command{probeCmd, diffCmd} {
		cmd.Flags().StringP("method", "X", "GET", "HTTP method")
		cmd.Flags().StringToString("headers", map[string]string{}, "Request headers")
		cmd.Flags().StringToString("params", map[string]string{}, "Query parameters")
		cmd.Flags().StringP("data", "d", "", "Request body")
		cmd.Flags().Bool("raw", false, "Print reconstructed raw packets")
	}

	diffCmd.Flags().String("fuzz-param", "", "Query parameter to replace with the fuzz value")
	diffCmd.Flags().String("fuzz-value", "", "Value to send in place of the parameter's baseline value")
	diffCmd.MarkFlagRequired("fuzz-param")
	diffCmd.MarkFlagRequired("fuzz-value")

	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(diffCmd)
}

func initConfig() {
	cfg, err := appconfig.Load(cfgFile)
	if err != nil {
		printWarning("config: %v (using defaults)", err)
		cfg = types.DefaultConfig()
	}
	config = cfg
}

func runProbe(cmd *cobra.Command, args []string) error {
	spec, err := specFromFlags(cmd, args[0])
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	printInfo("Run %s", uuid.New().String())
	result := client.Execute(spec)
	printResult(result)

	if raw, _ := cmd.Flags().GetBool("raw"); raw {
		fmt.Println("\n--- raw request ---")
		fmt.Println(result.RawRequest)
		if result.RawResponse != "" {
			fmt.Println("\n--- raw response ---")
			fmt.Println(result.RawResponse)
		}
	}

	return nil
}

func runDiff(cmd *cobra.Command, args []string) error {
	spec, err := specFromFlags(cmd, args[0])
	if err != nil {
		return err
	}

	fuzzParam, _ := cmd.Flags().GetString("fuzz-param")
	fuzzValue, _ := cmd.Flags().GetString("fuzz-value")

	client, err := newClient()
	if err != nil {
		return err
	}

	registry := baseline.NewRegistry()
	scorer := detector.NewAuthBypassScorer(config.Detection, registry)
	sqlDetector := detector.NewSQLDetector(config.SQL)

	printInfo("Run %s", uuid.New().String())
	printInfo("Capturing baseline: %s %s", spec.Method, spec.URL)
	baseResult := client.Execute(spec)
	printResult(baseResult)
	if baseResult.StatusCode == 0 {
		return fmt.Errorf("baseline capture failed: %s", baseResult.Error)
	}
	registry.Set(spec.Key(), baseResult)

	fuzzSpec := *spec
	fuzzSpec.Params = make(map[string]string, len(spec.Params)+1)
	for key, value := range spec.Params {
		fuzzSpec.Params[key] = value
	}
	fuzzSpec.Params[fuzzParam] = fuzzValue
	fuzzSpec.FuzzTarget = fuzzParam
	fuzzSpec.FuzzValue = fuzzValue

	printInfo("Sending fuzzed exchange: %s=%s", fuzzParam, fuzzValue)
	fuzzResult := client.Execute(&fuzzSpec)
	printResult(fuzzResult)

	if analysis := scorer.Analyze(fuzzResult); analysis != nil {
		printAnalysis(analysis)
	} else {
		printInfo("Auth-bypass detection: no signal available")
	}

	hasError, matched := sqlDetector.DetectError(fuzzResult.BodyText())
	base, _ := registry.Get(spec.Key())
	det := types.SQLDetection{
		HasSQLError:   hasError,
		MatchedErrors: matched,
		Diff:          sqlDetector.AnalyzeDiff(base, fuzzResult),
	}
	det.RiskScore = sqlDetector.RiskScore(det)
	printSQLDetection(det)

	return nil
}

func newClient() (*transport.Client, error) {
	var m *metrics.Metrics
	if config.Metrics.Enabled {
		m = metrics.New()
		go func() {
			if err := m.Serve(config.Metrics.Addr); err != nil {
				printWarning("metrics endpoint failed: %v", err)
			}
		}()
	}

	return transport.NewClient(config, m)
}

func specFromFlags(cmd *cobra.Command, target string) (*types.RequestSpec, error) {
	method, _ := cmd.Flags().GetString("method")
	headers, _ := cmd.Flags().GetStringToString("headers")
	params, _ := cmd.Flags().GetStringToString("params")
	data, _ := cmd.Flags().GetString("data")

	if config.Target.BaseURL != "" && !strings.Contains(target, "://") {
		target = strings.TrimRight(config.Target.BaseURL, "/") + "/" + strings.TrimLeft(target, "/")
	}

	spec := &types.RequestSpec{
		Method:  strings.ToUpper(method),
		URL:     target,
		Path:    pathOf(target),
		Headers: headers,
		Params:  params,
	}
	if data != "" {
		spec.Body = data
	}
	return spec, nil
}

func pathOf(target string) string {
	rest := target
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.Index(rest, "/"); i >= 0 {
		path := rest[i:]
		if j := strings.Index(path, "?"); j >= 0 {
			path = path[:j]
		}
		return path
	}
	return "/"
}

func printResult(result *types.ExchangeResult) {
	if result.StatusCode == 0 {
		printWarning("no response: %s (%.2fs)", result.Error, result.ResponseTime)
		return
	}
	if result.Success {
		printSuccess("%d (%d bytes, %.2fs)", result.StatusCode, result.ResponseLength, result.ResponseTime)
	} else {
		printInfo("%d (%d bytes, %.2fs)", result.StatusCode, result.ResponseLength, result.ResponseTime)
	}
}

func printAnalysis(a *types.Analysis) {
	switch a.Level {
	case types.LevelLikely:
		printSuccess("Auth-bypass: score %d, %s (%s)", a.Score, a.Level, a.Label)
	case types.LevelPossible:
		printWarning("Auth-bypass: score %d, %s (%s)", a.Score, a.Level, a.Label)
	default:
		printInfo("Auth-bypass: score %d, %s (%s)", a.Score, a.Level, a.Label)
	}
	for _, reason := range a.Reasons {
		fmt.Printf("    - %s\n", reason)
	}
}

func printSQLDetection(det types.SQLDetection) {
	if det.HasSQLError {
		printWarning("SQL injection: error signatures matched (risk %d/100)", det.RiskScore)
		for _, m := range det.MatchedErrors {
			fmt.Printf("    - %s\n", m)
		}
		return
	}
	if det.Diff.HasDiff {
		printInfo("SQL injection: response differs from baseline (risk %d/100)", det.RiskScore)
		return
	}
	printInfo("SQL injection: no signal (risk %d/100)", det.RiskScore)
}

var (
	infoColor    = color.New(color.FgCyan)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
)

func printInfo(format string, args ...any) {
	infoColor.Printf("[*] "+format+"\n", args...)
}

func printSuccess(format string, args ...any) {
	successColor.Printf("[+] "+format+"\n", args...)
}

func printWarning(format string, args ...any) {
	warnColor.Printf("[!] "+format+"\n", args...)
}
