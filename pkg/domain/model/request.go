package model

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pagecap/pkg/domain/types"
)

// Request describes one page capture
type Request struct {
	ID               string   `json:"id,omitempty"`
	URL              string   `json:"url"`
	CookiesFile      string   `json:"cookies_file,omitempty" masq:"secret"`
	OutputDir        string   `json:"output_dir,omitempty"`
	FilenameTemplate string   `json:"filename,omitempty"`
	ExtraArgs        []string `json:"extra_args,omitempty"`
	Verbose          bool     `json:"-"`
}

// ExpectedOutput returns the path SingleFile is told to write to
func (r *Request) ExpectedOutput() string {
	if r.FilenameTemplate == "" {
		return r.OutputDir
	}
	if filepath.IsAbs(r.FilenameTemplate) {
		return r.FilenameTemplate
	}
	return filepath.Join(r.OutputDir, r.FilenameTemplate)
}

// Validate checks the request before any process is launched
func (r *Request) Validate() error {
	if r.URL == "" {
		return goerr.New("url is required", goerr.T(types.ErrTagInvalidRequest))
	}

	u, err := url.Parse(r.URL)
	if err != nil {
		return goerr.Wrap(err, "invalid url",
			goerr.T(types.ErrTagInvalidRequest),
			goerr.V("url", r.URL))
	}
	if u.Scheme == "" {
		return goerr.New("url must be absolute",
			goerr.T(types.ErrTagInvalidRequest),
			goerr.V("url", r.URL))
	}

	if r.OutputDir == "" {
		return goerr.New("output directory is required",
			goerr.T(types.ErrTagInvalidRequest),
			goerr.V("url", r.URL))
	}

	return nil
}

// Result describes a successful capture. The captured file stays at Path.
type Result struct {
	ID         string        `json:"id"`
	URL        string        `json:"url"`
	Path       string        `json:"path"`
	Strategy   Strategy      `json:"strategy"`
	ExitCode   int           `json:"exit_code"`
	Stdout     string        `json:"stdout,omitempty"`
	Stderr     string        `json:"stderr,omitempty"`
	Elapsed    time.Duration `json:"elapsed"`
	ArchiveURI string        `json:"archive_uri,omitempty"`
}

// Notice is sent to a notifier when a capture hit a login page
type Notice struct {
	RequestID string
	URL       string
	Path      string
	Indicator string
}

const fallbackFilename = "page.html"

// DefaultFilename derives a file name from the host and path of rawURL, for
// requests that name only an output directory
func DefaultFilename(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return fallbackFilename
	}

	name := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '.', r == '-':
			return r
		default:
			return '_'
		}
	}, u.Host+strings.TrimSuffix(u.Path, "/"))
	name = strings.Trim(name, "_.")

	if len(name) > 120 {
		name = name[:120]
	}
	if name == "" {
		return fallbackFilename
	}
	if ext := strings.ToLower(filepath.Ext(name)); ext != ".html" && ext != ".htm" {
		name += ".html"
	}
	return name
}
