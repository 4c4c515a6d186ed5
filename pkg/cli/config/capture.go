package config

import (
	"math"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pagecap/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// Capture holds SingleFile settings shared by every capture
type Capture struct {
	ConfigFile  string
	BrowserPath string
	Timeout     string
	ToolDir     string
	Indicators  []string
}

// Flags returns CLI flags for capture settings
func (c *Capture) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to the TOML config file (default: $XDG_CONFIG_HOME/" + ProfilePath + ")",
			Destination: &c.ConfigFile,
			Sources:     cli.EnvVars("PAGECAP_CONFIG"),
		},
		&cli.StringFlag{
			Name:        "browser",
			Usage:       "Browser executable passed to SingleFile (default: auto-detect)",
			Destination: &c.BrowserPath,
			Sources:     cli.EnvVars("PAGECAP_BROWSER"),
		},
		&cli.StringFlag{
			Name:        "timeout",
			Usage:       "Maximum capture time; a bare number is seconds, e.g. 90 or 1m30s (default: 60s)",
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("PAGECAP_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:        "tool-dir",
			Usage:       "Directory containing node_modules with single-file-cli",
			Destination: &c.ToolDir,
			Sources:     cli.EnvVars("PAGECAP_TOOL_DIR"),
		},
		&cli.StringSliceFlag{
			Name:        "login-indicator",
			Usage:       "Substring that marks a captured login page (repeatable)",
			Destination: &c.Indicators,
			Sources:     cli.EnvVars("PAGECAP_LOGIN_INDICATORS"),
		},
	}
}

// Configure builds Settings from defaults, profile and flags, in that
// order. detect is called only when no browser path is configured.
func (c *Capture) Configure(profile *Profile, detect func() string) (*model.Settings, error) {
	settings := model.NewSettings()

	if profile.Capture.Timeout != "" {
		timeout, err := ParseTimeout(profile.Capture.Timeout)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid capture timeout in config file",
				goerr.V("timeout", profile.Capture.Timeout))
		}
		settings.SetTimeout(timeout)
	}
	if c.Timeout != "" {
		timeout, err := ParseTimeout(c.Timeout)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid --timeout", goerr.V("timeout", c.Timeout))
		}
		settings.SetTimeout(timeout)
	}

	switch {
	case c.BrowserPath != "":
		settings.SetBrowserPath(c.BrowserPath)
	case profile.Browser.Path != "":
		settings.SetBrowserPath(profile.Browser.Path)
	case detect != nil:
		settings.SetBrowserPath(detect())
	}

	if profile.Capture.ToolDir != "" {
		settings.ToolDir = profile.Capture.ToolDir
	}
	if c.ToolDir != "" {
		settings.ToolDir = c.ToolDir
	}

	if profile.Capture.LoginIndicators != nil {
		settings.Indicators = append([]string{}, profile.Capture.LoginIndicators...)
	}
	if len(c.Indicators) > 0 {
		settings.Indicators = append([]string{}, c.Indicators...)
	}

	settings.ExtraArgs = append(settings.ExtraArgs, profile.Capture.ExtraArgs...)

	return settings, nil
}

// ParseTimeout accepts a Go duration ("90s", "1m30s") or a bare number of
// seconds ("90", "1.5").
func ParseTimeout(v string) (time.Duration, error) {
	if sec, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(sec) && !math.IsInf(sec, 0) {
		return time.Duration(sec * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, goerr.Wrap(err, "timeout must be a duration or a number of seconds")
	}
	return d, nil
}
