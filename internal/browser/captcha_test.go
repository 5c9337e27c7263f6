package browser

import "testing"

func TestDetectChallenge(t *testing.T) {
	tests := []struct {
		name  string
		html  string
		want  ChallengeType
		found bool
	}{
		{"recaptcha div", `<div class="g-recaptcha" data-sitekey="x"></div>`, ChallengeReCaptcha, true},
		{"hcaptcha", `<div class="h-captcha"></div>`, ChallengeHCaptcha, true},
		{"turnstile", `<div class="cf-turnstile"></div>`, ChallengeTurnstile, true},
		{"plain results page", `<div class="srp-river-results"><ul></ul></div>`, "", false},
	}
	for _, tt := range tests {
		got, found := DetectChallenge(tt.html)
		if got != tt.want || found != tt.found {
			t.Errorf("%s: DetectChallenge = %q, %v; want %q, %v", tt.name, got, found, tt.want, tt.found)
		}
	}
}
