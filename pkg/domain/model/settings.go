package model

import (
	"strings"
	"time"
)

// DefaultTimeout is the capture time ceiling used when nothing overrides it
const DefaultTimeout = 60 * time.Second

// DefaultLoginIndicators are substrings that only appear on the Canvas LMS
// login page. A capture containing any of them was redirected to sign-in.
var DefaultLoginIndicators = []string{
	"<title>Log in to Canvas</title>",
	`id="new_login_data"`,
	`autocomplete="current-password"`,
}

// Settings holds capture configuration. It is read at call time, so callers
// may change it between captures.
type Settings struct {
	// BrowserPath is passed to SingleFile as --browser-executable-path.
	// Empty lets SingleFile look for a browser on its own.
	BrowserPath string

	// Timeout is the capture time ceiling handed to SingleFile. Polling for
	// the output file waits for Timeout plus a grace period.
	Timeout time.Duration

	// ToolDir is the directory holding node_modules with single-file-cli
	ToolDir string

	// Indicators are login page markers. nil means DefaultLoginIndicators,
	// an empty non-nil slice disables login detection.
	Indicators []string

	// ExtraArgs are prepended to the per-request extra arguments
	ExtraArgs []string
}

// NewSettings returns settings with default timeout and login indicators
func NewSettings() *Settings {
	return &Settings{
		Timeout:    DefaultTimeout,
		ToolDir:    ".",
		Indicators: append([]string{}, DefaultLoginIndicators...),
	}
}

// SetBrowserPath overrides the browser executable. Surrounding whitespace
// and quote characters are removed.
func (s *Settings) SetBrowserPath(path string) {
	s.BrowserPath = strings.TrimSpace(strings.Trim(strings.TrimSpace(path), `"'`))
}

// SetTimeout overrides the timeout. Non-positive values are ignored.
func (s *Settings) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		s.Timeout = timeout
	}
}

// LoginIndicators returns the indicators in effect
func (s *Settings) LoginIndicators() []string {
	if s.Indicators == nil {
		return DefaultLoginIndicators
	}
	return s.Indicators
}

// Clone returns a copy that does not share slices with s
func (s *Settings) Clone() *Settings {
	c := *s
	if s.Indicators != nil {
		c.Indicators = append([]string{}, s.Indicators...)
	}
	if s.ExtraArgs != nil {
		c.ExtraArgs = append([]string{}, s.ExtraArgs...)
	}
	return &c
}
