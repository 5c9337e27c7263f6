package browser

import (
	"strings"
	"time"
)

// ChallengeType identifies an anti-automation interstitial.
type ChallengeType string

const (
	ChallengeReCaptcha ChallengeType = "recaptcha"
	ChallengeHCaptcha  ChallengeType = "hcaptcha"
	ChallengeTurnstile ChallengeType = "turnstile"
)

// DetectChallenge checks page HTML for common CAPTCHA indicators.
func DetectChallenge(html string) (ChallengeType, bool) {
	lower := strings.ToLower(html)
	switch {
	case strings.Contains(lower, "recaptcha") || strings.Contains(html, "g-recaptcha"):
		return ChallengeReCaptcha, true
	case strings.Contains(lower, "hcaptcha") || strings.Contains(html, "h-captcha"):
		return ChallengeHCaptcha, true
	case strings.Contains(lower, "turnstile") || strings.Contains(html, "cf-turnstile"):
		return ChallengeTurnstile, true
	}
	return "", false
}

// ClearInterstitial checks the current page for an anti-automation challenge
// and, when one is present, waits up to maxWait for it to clear. The run is
// human-operated, so in headful mode the operator solves the challenge; the
// session just polls until the page looks normal again.
func (s *Session) ClearInterstitial(maxWait time.Duration) {
	html, err := s.page.HTML()
	if err != nil {
		s.logger.Debug("interstitial check skipped", "error", err)
		return
	}
	kind, found := DetectChallenge(html)
	if !found {
		return
	}

	s.logger.Warn("anti-automation challenge detected, waiting for it to clear",
		"type", kind, "max_wait", maxWait)

	deadline := time.Now().Add(maxWait)
	for time.Now().Before(deadline) {
		time.Sleep(2 * time.Second)
		html, err := s.page.HTML()
		if err != nil {
			continue
		}
		if _, still := DetectChallenge(html); !still {
			s.logger.Info("challenge cleared", "type", kind)
			return
		}
	}
	s.logger.Error("challenge did not clear in time, continuing anyway", "type", kind)
}
