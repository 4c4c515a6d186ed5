package browser

import (
	"os"
	"os/exec"
	"runtime"

	"github.com/go-rod/rod/lib/launcher"
)

// Operating system names as reported by runtime.GOOS
const (
	OSWindows = "windows"
	OSDarwin  = "darwin"
)

// Well-known install locations, checked in order
var (
	WindowsCandidates = []string{
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files\Chromium\Application\chrome.exe`,
	}

	DarwinCandidates = []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/Applications/Google Chrome Canary.app/Contents/MacOS/Google Chrome Canary",
	}

	// UnixBinaryNames are searched on PATH in priority order
	UnixBinaryNames = []string{
		"google-chrome",
		"google-chrome-stable",
		"chromium-browser",
		"chromium",
		"chrome",
	}
)

// Finder locates a Chrome or Chromium executable
type Finder struct {
	goos     string
	lookPath func(file string) (string, error)
	exists   func(path string) bool
	fallback func() (string, bool)
}

// Option configures a Finder
type Option func(*Finder)

// WithGOOS overrides the operating system being searched
func WithGOOS(goos string) Option {
	return func(f *Finder) {
		f.goos = goos
	}
}

// WithLookPath overrides the PATH search
func WithLookPath(fn func(file string) (string, error)) Option {
	return func(f *Finder) {
		f.lookPath = fn
	}
}

// WithExists overrides the file existence check
func WithExists(fn func(path string) bool) Option {
	return func(f *Finder) {
		f.exists = fn
	}
}

// WithFallback overrides the last-resort lookup. nil disables it.
func WithFallback(fn func() (string, bool)) Option {
	return func(f *Finder) {
		f.fallback = fn
	}
}

// NewFinder creates a Finder probing the current host
func NewFinder(opts ...Option) *Finder {
	f := &Finder{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		exists:   fileExists,
		fallback: launcher.LookPath,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Find returns the best-guess browser path, or an empty string so that
// SingleFile falls back to its own detection
func (f *Finder) Find() string {
	switch f.goos {
	case OSWindows:
		if path := f.firstExisting(WindowsCandidates); path != "" {
			return path
		}
	case OSDarwin:
		if path := f.firstExisting(DarwinCandidates); path != "" {
			return path
		}
	default:
		for _, name := range UnixBinaryNames {
			if path, err := f.lookPath(name); err == nil && path != "" {
				return path
			}
		}
	}

	if f.fallback != nil {
		if path, ok := f.fallback(); ok {
			return path
		}
	}

	return ""
}

func (f *Finder) firstExisting(candidates []string) string {
	for _, path := range candidates {
		if f.exists(path) {
			return path
		}
	}
	return ""
}

// Detect searches the current host with default settings
func Detect() string {
	return NewFinder().Find()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
