// Package browser owns the headless browser session used to drive the
// search-results pages for one run.
package browser

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	"github.com/scoutloop/listingscout/internal/config"
)

// Session wraps a single stealth browser page for the life of a run. All
// term processing is sequential, so one page is enough.
type Session struct {
	browser *rod.Browser
	page    *rod.Page
	cfg     *config.BrowserConfig
	logger  *slog.Logger
}

// NewSession launches a Chromium instance and opens a stealth page.
func NewSession(cfg *config.BrowserConfig, logger *slog.Logger) (*Session, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-blink-features", "AutomationControlled")

	launchURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(launchURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	page, err := stealth.Page(browser)
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("stealth page: %w", err)
	}

	s := &Session{
		browser: browser,
		page:    page,
		cfg:     cfg,
		logger:  logger.With("component", "browser_session"),
	}
	s.logger.Info("browser session ready", "headless", cfg.Headless)
	return s, nil
}

// Navigate loads a URL and waits for the page to settle.
func (s *Session) Navigate(url string) error {
	if err := s.page.Timeout(s.cfg.NavigateTimeout).Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := s.page.Timeout(s.cfg.NavigateTimeout).WaitStable(300 * time.Millisecond); err != nil {
		s.logger.Warn("page stability timeout, continuing", "url", url, "error", err)
	}
	return nil
}

// WaitVisible waits up to timeout for an element matching the selector to
// appear. A false return means the selector never showed up.
func (s *Session) WaitVisible(selector string, timeout time.Duration) bool {
	_, err := s.page.Timeout(timeout).Element(selector)
	if err != nil {
		s.logger.Debug("selector wait failed", "selector", selector, "error", err)
		return false
	}
	return true
}

// Listings returns the outer HTML of up to max elements matching the
// selector, in document order.
func (s *Session) Listings(selector string, max int) ([]string, error) {
	els, err := s.page.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("collect listings %q: %w", selector, err)
	}
	if max > 0 && len(els) > max {
		els = els[:max]
	}

	htmls := make([]string, 0, len(els))
	for _, el := range els {
		h, err := el.HTML()
		if err != nil {
			s.logger.Debug("listing html", "error", err)
			continue
		}
		htmls = append(htmls, h)
	}
	return htmls, nil
}

// Screenshot captures the current viewport to a PNG file.
func (s *Session) Screenshot(path string) error {
	data, err := s.page.Screenshot(false, nil)
	if err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write screenshot: %w", err)
	}
	return nil
}

// Close shuts down the browser.
func (s *Session) Close() error {
	if s.browser != nil {
		return s.browser.Close()
	}
	return nil
}
