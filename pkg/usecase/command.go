package usecase

import (
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pagecap/pkg/domain/model"
	"github.com/m-mizutani/pagecap/pkg/domain/types"
)

// SingleFile flags
const (
	flagConflictAction = "--filename-conflict-action=overwrite"
	flagCaptureMaxTime = "--browser-capture-max-time="
	flagBrowserPath    = "--browser-executable-path="
	flagCookiesFile    = "--browser-cookies-file="
)

// SelectStrategy prefers calling the node entry directly. The shell shim is
// used when node is not on PATH or the entry script is missing.
func SelectStrategy(tc *model.Toolchain) model.Strategy {
	if tc.NodePath != "" && tc.EntryExists {
		return model.StrategyNode
	}
	return model.StrategyShell
}

// BuildCommand assembles the SingleFile invocation for req. It fails only
// when a value cannot be quoted safely for the Windows shell.
func BuildCommand(req *model.Request, settings *model.Settings, tc *model.Toolchain) (*model.Command, error) {
	if SelectStrategy(tc) == model.StrategyNode {
		return buildNodeCommand(req, settings, tc), nil
	}
	return buildShellCommand(req, settings, tc)
}

func buildNodeCommand(req *model.Request, settings *model.Settings, tc *model.Toolchain) *model.Command {
	args := []string{
		tc.EntryPath,
		req.URL,
		req.ExpectedOutput(),
		flagConflictAction,
		flagCaptureMaxTime + timeoutMillis(settings),
	}
	if settings.BrowserPath != "" {
		args = append(args, flagBrowserPath+strings.Trim(settings.BrowserPath, `"`))
	}
	if req.CookiesFile != "" {
		args = append(args, flagCookiesFile+req.CookiesFile)
	}
	args = append(args, extraArgs(req, settings)...)

	return &model.Command{
		Strategy: model.StrategyNode,
		Program:  tc.NodePath,
		Args:     args,
	}
}

func buildShellCommand(req *model.Request, settings *model.Settings, tc *model.Toolchain) (*model.Command, error) {
	tokens := []string{
		tc.ShimPath,
		req.URL,
		req.ExpectedOutput(),
		flagConflictAction,
		flagCaptureMaxTime + timeoutMillis(settings),
	}
	if settings.BrowserPath != "" {
		tokens = append(tokens, flagBrowserPath+strings.Trim(settings.BrowserPath, `"`))
	}
	if req.CookiesFile != "" {
		tokens = append(tokens, flagCookiesFile+strings.Trim(req.CookiesFile, `"`))
	}
	tokens = append(tokens, extraArgs(req, settings)...)

	quoteFn := quotePOSIX
	if tc.GOOS == "windows" {
		quoteFn = quoteWindows
	}

	parts := make([]string, 0, len(tokens))
	for _, token := range tokens {
		quoted, err := quoteFn(token)
		if err != nil {
			return nil, err
		}
		parts = append(parts, quoted)
	}

	return &model.Command{
		Strategy: model.StrategyShell,
		Line:     strings.Join(parts, " "),
	}, nil
}

func extraArgs(req *model.Request, settings *model.Settings) []string {
	args := make([]string, 0, len(settings.ExtraArgs)+len(req.ExtraArgs))
	args = append(args, settings.ExtraArgs...)
	return append(args, req.ExtraArgs...)
}

// timeoutMillis truncates the timeout to whole milliseconds
func timeoutMillis(settings *model.Settings) string {
	return strconv.FormatInt(settings.Timeout.Milliseconds(), 10)
}

// quotePOSIX single-quotes s for sh after dropping surrounding double
// quotes. Nothing inside single quotes is expanded.
func quotePOSIX(s string) (string, error) {
	s = strings.Trim(s, `"`)
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'", nil
}

// windowsShellMeta are characters cmd.exe interprets even inside double quotes,
// or that would end the quoted token
const windowsShellMeta = `%^&|"<>`

// quoteWindows double-quotes s for cmd.exe after dropping surrounding double
// quotes. Values cmd.exe would still interpret are rejected.
func quoteWindows(s string) (string, error) {
	s = strings.Trim(s, `"`)
	if i := strings.IndexAny(s, windowsShellMeta); i >= 0 {
		return "", goerr.New("value cannot be passed safely through cmd.exe",
			goerr.T(types.ErrTagInvalidRequest),
			goerr.V("value", s),
			goerr.V("char", string(s[i])))
	}
	return `"` + s + `"`, nil
}
