package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/pagecap/pkg/cli/config"
	"github.com/m-mizutani/pagecap/pkg/infra/browser"
	"github.com/m-mizutani/pagecap/pkg/infra/singlefile"
	"github.com/m-mizutani/pagecap/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdDetect() *cli.Command {
	var captureCfg config.Capture

	return &cli.Command{
		Name:    "detect",
		Aliases: []string{"d"},
		Usage:   "Show the browser and SingleFile installation that would be used",
		Flags:   captureCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			profile, err := config.LoadProfile(captureCfg.ConfigFile)
			if err != nil {
				return err
			}
			settings, err := captureCfg.Configure(profile, browser.Detect)
			if err != nil {
				return err
			}

			tc := singlefile.NewLocator().Locate(settings.ToolDir)
			browserPath := settings.BrowserPath
			if browserPath == "" {
				browserPath = "(not found, SingleFile will search on its own)"
			}
			nodePath := tc.NodePath
			if nodePath == "" {
				nodePath = "(not found)"
			}

			w := c.Root().Writer
			fmt.Fprintf(w, "browser:  %s\n", browserPath)
			fmt.Fprintf(w, "node:     %s\n", nodePath)
			fmt.Fprintf(w, "entry:    %s (exists: %t)\n", tc.EntryPath, tc.EntryExists)
			fmt.Fprintf(w, "shim:     %s\n", tc.ShimPath)
			fmt.Fprintf(w, "strategy: %s\n", usecase.SelectStrategy(tc))
			fmt.Fprintf(w, "timeout:  %s\n", settings.Timeout)
			return nil
		},
	}
}
