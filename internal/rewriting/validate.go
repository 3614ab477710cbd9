package rewriting

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-optimizer/internal/metrics"
)

const (
	// minNumberRetention is the share of the original's numbers a rewrite must keep
	minNumberRetention = 0.8
	minLengthRatio     = 0.4
	maxLengthRatio     = 3.0
)

// ValidateRewrite checks rewritten text against the original. A nil error
// means the rewrite may replace the original.
func ValidateRewrite(original, rewritten string, intent Intent) error {
	reject := func(format string, args ...any) error {
		return &RejectedError{Intent: intent, Reason: fmt.Sprintf(format, args...)}
	}

	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return reject("empty text")
	}

	origLen := utf8.RuneCountInString(strings.TrimSpace(original))
	newLen := utf8.RuneCountInString(rewritten)
	if origLen > 0 {
		ratio := float64(newLen) / float64(origLen)
		if ratio < minLengthRatio {
			return reject("text shrank to %.0f%% of the original length", ratio*100)
		}
		if intent == IntentParaphrase && ratio > maxLengthRatio {
			return reject("text grew to %.1fx the original length", ratio)
		}
	}

	if nums := metrics.Numbers(original); len(nums) > 0 {
		kept := 0
		for _, n := range nums {
			if strings.Contains(rewritten, n) {
				kept++
			}
		}
		if float64(kept) < minNumberRetention*float64(len(nums)) {
			return reject("kept %d of %d original numbers", kept, len(nums))
		}
	}

	if metrics.HasMetric(original) && !metrics.HasMetric(rewritten) {
		return reject("dropped an existing metric")
	}
	if intent == IntentMetric && !metrics.HasMetric(rewritten) {
		return reject("no metric in rewritten text")
	}
	return nil
}
