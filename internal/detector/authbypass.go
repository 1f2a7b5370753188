// Package detector turns (baseline, candidate) response pairs into
// auth-bypass and SQL injection signals.
package detector

import (
	"fmt"
	"math"
	"strings"

	"github.com/venari/venari/internal/baseline"
	"github.com/venari/venari/pkg/types"
)

// AuthBypassScorer scores fuzzed exchanges against their baselines with
// a weighted heuristic: status transition, length delta, timing ratio,
// and keyword hits, in that fixed order.
type AuthBypassScorer struct {
	enabled bool

	successCodes map[int]bool
	authCodes    map[int]bool

	lengthDiffThreshold float64
	timeDiffThreshold   float64

	successKeywords []string
	failureKeywords []string

	thresholdPossible int
	thresholdLikely   int

	baselines *baseline.Registry
}

// NewAuthBypassScorer creates a scorer from the detection settings.
// Keywords are case-folded once here, not per call.
func NewAuthBypassScorer(cfg types.DetectionSettings, registry *baseline.Registry) *AuthBypassScorer {
	return &AuthBypassScorer{
		enabled:             cfg.Enabled,
		successCodes:        codeSet(cfg.SuccessStatusCodes),
		authCodes:           codeSet(cfg.AuthStatusCodes),
		lengthDiffThreshold: cfg.LengthDiffThreshold,
		timeDiffThreshold:   cfg.TimeDiffThreshold,
		successKeywords:     lowerAll(cfg.SuccessKeywords),
		failureKeywords:     lowerAll(cfg.FailureKeywords),
		thresholdPossible:   cfg.ScoreThresholdPossible,
		thresholdLikely:     cfg.ScoreThresholdLikely,
		baselines:           registry,
	}
}

// Analyze scores a fuzzed exchange against its baseline. It returns nil
// when detection is disabled or no baseline exists for the endpoint:
// "no signal available", which is distinct from a low score.
func (s *AuthBypassScorer) Analyze(result *types.ExchangeResult) *types.Analysis {
	if !s.enabled {
		return nil
	}

	key := result.Request.Key()
	base, ok := s.baselines.Get(key)
	if !ok {
		return nil
	}

	score := 0
	var reasons []string

	status := result.StatusCode
	baselineStatus := base.StatusCode

	// Both sides already failing auth means a changed error body is
	// usually noise; length scoring below is down-weighted for it
	bothAuthErrors := s.authCodes[status] && s.authCodes[baselineStatus]

	// 1. Status code transition (max 50). Exactly one branch fires.
	switch {
	case s.successCodes[status] && !s.successCodes[baselineStatus]:
		score += 50
		reasons = append(reasons, fmt.Sprintf("status code changed from %d to %d", baselineStatus, status))
	case s.authCodes[status] && !s.authCodes[baselineStatus]:
		// The resource likely exists but wants credentials; scoring
		// only when the baseline was not already an auth error
		score += 40
		reasons = append(reasons, fmt.Sprintf("status code changed from %d to %d (authentication required)", baselineStatus, status))
	case status != baselineStatus:
		score += 20
		reasons = append(reasons, fmt.Sprintf("status code changed: %d -> %d", baselineStatus, status))
	}

	// 2. Response length delta (max 30)
	length := result.ResponseLength
	baselineLength := base.ResponseLength

	if baselineLength > 0 {
		diffPercent := math.Abs(float64(length-baselineLength)) / float64(baselineLength) * 100

		if diffPercent > s.lengthDiffThreshold {
			if length > baselineLength {
				var lengthScore int
				switch {
				case length > 1000:
					lengthScore = pick(bothAuthErrors, 15, 30)
				case length > 500:
					lengthScore = pick(bothAuthErrors, 12, 25)
				default:
					lengthScore = pick(bothAuthErrors, 10, 20)
				}
				score += lengthScore
				reasons = append(reasons, fmt.Sprintf("response length grew %.1f%% (from %d to %d bytes)", diffPercent, baselineLength, length))
			} else {
				score += pick(bothAuthErrors, 3, 5)
				reasons = append(reasons, fmt.Sprintf("response length shrank %.1f%% (from %d to %d bytes)", diffPercent, baselineLength, length))
			}
		}
	}

	// 3. Response time ratio (max 10)
	if base.ResponseTime > 0 {
		ratio := result.ResponseTime / base.ResponseTime
		if ratio > s.timeDiffThreshold {
			score += 10
			reasons = append(reasons, fmt.Sprintf("response time increased %.1fx", ratio))
		}
	}

	// 4. Keyword hits (max +20/-10). First hit of each list wins; a
	// success hit and a failure hit can co-occur.
	bodyText := strings.ToLower(result.BodyText())
	for _, keyword := range s.successKeywords {
		if strings.Contains(bodyText, keyword) {
			score += 20
			reasons = append(reasons, fmt.Sprintf("response contains success keyword %q", keyword))
			break
		}
	}
	for _, keyword := range s.failureKeywords {
		if strings.Contains(bodyText, keyword) {
			score -= 10
			reasons = append(reasons, fmt.Sprintf("response contains failure keyword %q", keyword))
			break
		}
	}

	// 5. Classification. The raw score is deliberately unclamped; only
	// the threshold comparisons matter here.
	var level, label string
	switch {
	case score >= s.thresholdLikely:
		level, label = types.LevelLikely, "highly suspicious"
	case score >= s.thresholdPossible:
		level, label = types.LevelPossible, "possibly effective"
	default:
		level, label = types.LevelUnlikely, "likely ineffective"
	}

	return &types.Analysis{
		Score:          score,
		Level:          level,
		Label:          label,
		Reasons:        reasons,
		FuzzTarget:     result.Request.FuzzTarget,
		FuzzValue:      result.Request.FuzzValue,
		StatusCode:     status,
		BaselineStatus: baselineStatus,
		ResponseLength: length,
		BaselineLength: baselineLength,
	}
}

func codeSet(codes []int) map[int]bool {
	set := make(map[int]bool, len(codes))
	for _, code := range codes {
		set[code] = true
	}
	return set
}

func lowerAll(keywords []string) []string {
	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}
	return lowered
}

func pick(cond bool, a, b int) int {
	if cond {
		return a
	}
	return b
}
