package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pagecap/pkg/domain/interfaces"
	"github.com/m-mizutani/pagecap/pkg/domain/model"
	"github.com/m-mizutani/pagecap/pkg/domain/types"
	"github.com/m-mizutani/pagecap/pkg/utils/clock"
)

// AuthFailureMessage tells the caller how to recover from a login page capture
const AuthFailureMessage = "Authentication failed, downloaded a login page. Please update your cookies."

// Capture drives SingleFile and validates what it wrote
type Capture struct {
	runner   interfaces.ProcessRunner
	locator  interfaces.ToolLocator
	clock    interfaces.Clock
	policy   RetryPolicy
	readFile readFunc
	archiver interfaces.Archiver
	notifier interfaces.Notifier
	console  *console
}

var _ interfaces.CaptureUseCase = (*Capture)(nil)

// Option is a functional option for Capture
type Option func(*Capture)

// WithClock replaces the wall clock used for deadlines and sleeps
func WithClock(c interfaces.Clock) Option {
	return func(uc *Capture) {
		uc.clock = c
	}
}

// WithRetryPolicy replaces DefaultRetryPolicy
func WithRetryPolicy(p RetryPolicy) Option {
	return func(uc *Capture) {
		uc.policy = p
	}
}

// WithArchiver uploads every successful capture
func WithArchiver(a interfaces.Archiver) Option {
	return func(uc *Capture) {
		uc.archiver = a
	}
}

// WithNotifier reports login page captures
func WithNotifier(n interfaces.Notifier) Option {
	return func(uc *Capture) {
		uc.notifier = n
	}
}

// WithOutput sets where verbose output goes. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(uc *Capture) {
		uc.console = newConsole(w)
	}
}

// NewCapture creates a Capture use case
func NewCapture(runner interfaces.ProcessRunner, locator interfaces.ToolLocator, opts ...Option) *Capture {
	uc := &Capture{
		runner:   runner,
		locator:  locator,
		clock:    clock.New(),
		policy:   DefaultRetryPolicy,
		readFile: os.ReadFile,
		console:  newConsole(os.Stdout),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Download captures req.URL into req.ExpectedOutput(). On success the file
// is left on disk. A captured login page is deleted and reported as an
// authentication failure.
func (uc *Capture) Download(ctx context.Context, settings *model.Settings, req *model.Request) (*model.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	cfg := settings.Clone()

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	logger := ctxlog.From(ctx).With("request_id", id)

	expected := req.ExpectedOutput()
	if req.FilenameTemplate != "" {
		if err := os.MkdirAll(filepath.Dir(expected), 0755); err != nil {
			return nil, goerr.Wrap(err, "failed to create output directory",
				goerr.V("path", expected))
		}
	}

	tc := uc.locator.Locate(cfg.ToolDir)
	cmd, err := BuildCommand(req, cfg, tc)
	if err != nil {
		return nil, err
	}

	logger.Debug("Launching SingleFile",
		"request", req,
		"strategy", cmd.Strategy,
		"timeout", cfg.Timeout,
		"browser", cfg.BrowserPath,
	)
	if req.Verbose {
		uc.console.printCommand(cmd)
	}

	start := uc.clock.Now()
	out, err := uc.runner.Run(ctx, cmd)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to launch SingleFile",
			goerr.V("url", req.URL),
			goerr.V("strategy", cmd.Strategy))
	}

	stdout := decodeOutput(out.Stdout)
	stderr := decodeOutput(out.Stderr)
	if req.Verbose {
		uc.console.printOutput(stdout, stderr)
	}

	if out.ExitCode != 0 {
		logger.Warn("SingleFile exited with error",
			"url", req.URL,
			"exit_code", out.ExitCode,
		)
		return nil, processFailure(req.URL, out.ExitCode, stdout, stderr)
	}

	deadline := start.Add(cfg.Timeout + uc.policy.Grace)
	content, err := awaitOutput(ctx, uc.clock, uc.policy, uc.readFile, expected, deadline)
	if errors.Is(err, errNoOutput) {
		elapsed := uc.clock.Now().Sub(start)
		logger.Warn("SingleFile produced no output",
			"url", req.URL,
			"path", expected,
			"elapsed", elapsed,
		)
		return nil, timeoutFailure(req.URL, expected, elapsed, out.ExitCode, stdout, stderr)
	}
	if err != nil {
		return nil, err
	}

	if indicator, found := NewLoginDetector(cfg.LoginIndicators()).Match(content); found {
		if err := os.Remove(expected); err != nil {
			logger.Debug("Failed to remove login page capture", "path", expected, "error", err)
		}

		logger.Warn("Captured a login page",
			"url", req.URL,
			"indicator", indicator,
		)
		uc.notify(ctx, &model.Notice{
			RequestID: id,
			URL:       req.URL,
			Path:      expected,
			Indicator: indicator,
		})
		return nil, goerr.New(AuthFailureMessage,
			goerr.T(types.ErrTagAuth),
			goerr.V("url", req.URL),
			goerr.V("path", expected),
			goerr.V("indicator", indicator))
	}

	result := &model.Result{
		ID:       id,
		URL:      req.URL,
		Path:     expected,
		Strategy: cmd.Strategy,
		ExitCode: out.ExitCode,
		Stdout:   stdout,
		Stderr:   stderr,
		Elapsed:  uc.clock.Now().Sub(start),
	}

	if uc.archiver != nil {
		uri, err := uc.archiver.Archive(ctx, id, expected)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to archive captured page",
				goerr.V("url", req.URL),
				goerr.V("path", expected))
		}
		result.ArchiveURI = uri
	}

	logger.Info("Captured page",
		"url", req.URL,
		"path", expected,
		"strategy", cmd.Strategy,
		"elapsed", result.Elapsed,
		"archive_uri", result.ArchiveURI,
	)

	return result, nil
}

func (uc *Capture) notify(ctx context.Context, notice *model.Notice) {
	if uc.notifier == nil {
		return
	}
	if err := uc.notifier.Notify(ctx, notice); err != nil {
		ctxlog.From(ctx).Error("Failed to send login page notification",
			"request_id", notice.RequestID,
			"error", err,
		)
	}
}

// decodeOutput turns captured bytes into trimmed text. Each maximal invalid
// UTF-8 subpart becomes one U+FFFD, so "\xff\xfe" yields two replacements.
func decodeOutput(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r != utf8.RuneError || size > 1 {
			sb.Write(b[:size])
			b = b[size:]
			continue
		}
		sb.WriteRune(utf8.RuneError)
		b = b[invalidPrefixLen(b):]
	}
	return strings.TrimSpace(sb.String())
}

// invalidPrefixLen returns the length of the ill-formed subpart at the head
// of b: a lead byte plus the continuation bytes that could still have
// completed it.
func invalidPrefixLen(b []byte) int {
	var lo, hi byte = 0x80, 0xBF
	var need int
	switch c := b[0]; {
	case c >= 0xC2 && c <= 0xDF:
		need = 1
	case c == 0xE0:
		need, lo = 2, 0xA0
	case c == 0xED:
		need, hi = 2, 0x9F
	case c >= 0xE1 && c <= 0xEF:
		need = 2
	case c == 0xF0:
		need, lo = 3, 0x90
	case c == 0xF4:
		need, hi = 3, 0x8F
	case c >= 0xF1 && c <= 0xF3:
		need = 3
	default:
		return 1
	}

	n := 1
	for n <= need && n < len(b) && b[n] >= lo && b[n] <= hi {
		n++
		lo, hi = 0x80, 0xBF
	}
	return n
}

func appendStreams(lines []string, stdout, stderr string) []string {
	if stdout != "" {
		lines = append(lines, "stdout:\n"+stdout)
	}
	if stderr != "" {
		lines = append(lines, "stderr:\n"+stderr)
	}
	return lines
}

func processFailure(url string, exitCode int, stdout, stderr string) error {
	lines := []string{
		fmt.Sprintf("SingleFile failed for %s.", url),
		fmt.Sprintf("Exit code: %d", exitCode),
	}
	lines = appendStreams(lines, stdout, stderr)

	return goerr.New(strings.Join(lines, "\n"),
		goerr.T(types.ErrTagProcess),
		goerr.V("url", url),
		goerr.V("exit_code", exitCode),
		goerr.V("stdout", stdout),
		goerr.V("stderr", stderr))
}

func timeoutFailure(url, path string, elapsed time.Duration, exitCode int, stdout, stderr string) error {
	lines := []string{
		fmt.Sprintf("SingleFile produced no readable output within %.1fs", elapsed.Seconds()),
		"URL: " + url,
		"Expected path: " + path,
		fmt.Sprintf("Exit code: %d", exitCode),
	}
	lines = appendStreams(lines, stdout, stderr)

	return goerr.New(strings.Join(lines, "\n"),
		goerr.T(types.ErrTagTimeout),
		goerr.V("url", url),
		goerr.V("path", path),
		goerr.V("elapsed", elapsed),
		goerr.V("exit_code", exitCode),
		goerr.V("stdout", stdout),
		goerr.V("stderr", stderr))
}
