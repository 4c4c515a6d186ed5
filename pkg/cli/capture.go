package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pagecap/pkg/cli/config"
	"github.com/m-mizutani/pagecap/pkg/domain/model"
	"github.com/m-mizutani/pagecap/pkg/domain/types"
	"github.com/m-mizutani/pagecap/pkg/infra/browser"
	"github.com/m-mizutani/pagecap/pkg/infra/process"
	"github.com/m-mizutani/pagecap/pkg/infra/singlefile"
	"github.com/m-mizutani/pagecap/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdCapture() *cli.Command {
	var (
		captureCfg config.Capture
		outputCfg  config.Output
		archiveCfg config.Archive
		notifyCfg  config.Notify

		cookiesFile string
		filename    string
		extraArgs   []string
		verbose     bool
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "cookies",
			Usage:       "Netscape format cookies file passed to the browser",
			Destination: &cookiesFile,
			Sources:     cli.EnvVars("PAGECAP_COOKIES"),
		},
		&cli.StringFlag{
			Name:        "filename",
			Aliases:     []string{"f"},
			Usage:       "Output file name or absolute path (default: derived from the URL when --output-dir is a directory)",
			Destination: &filename,
		},
		&cli.StringSliceFlag{
			Name:        "arg",
			Usage:       "Extra argument passed to SingleFile (repeatable)",
			Destination: &extraArgs,
		},
		&cli.BoolFlag{
			Name:        "verbose",
			Aliases:     []string{"v"},
			Usage:       "Print the SingleFile command line and its output",
			Destination: &verbose,
		},
	}
	flags = append(flags, outputCfg.Flags()...)
	flags = append(flags, captureCfg.Flags()...)
	flags = append(flags, archiveCfg.Flags()...)
	flags = append(flags, notifyCfg.Flags()...)

	return &cli.Command{
		Name:      "capture",
		Aliases:   []string{"c"},
		Usage:     "Capture a single page",
		ArgsUsage: "URL",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			url := c.Args().First()
			if url == "" {
				return goerr.New("URL argument is required", goerr.T(types.ErrTagInvalidRequest))
			}

			profile, err := config.LoadProfile(captureCfg.ConfigFile)
			if err != nil {
				return err
			}
			settings, err := captureCfg.Configure(profile, browser.Detect)
			if err != nil {
				return err
			}

			opts, cleanup, err := sinkOptions(ctx, profile, &archiveCfg, &notifyCfg)
			if err != nil {
				return err
			}
			defer cleanup()
			opts = append(opts, usecase.WithOutput(c.Root().Writer))

			uc := usecase.NewCapture(process.NewRunner(), singlefile.NewLocator(), opts...)

			// an existing directory cannot be the output file itself
			if filename == "" {
				if info, err := os.Stat(outputCfg.Dir); err == nil && info.IsDir() {
					filename = model.DefaultFilename(url)
				}
			}

			result, err := uc.Download(ctx, settings, &model.Request{
				URL:              url,
				CookiesFile:      cookiesFile,
				OutputDir:        outputCfg.Dir,
				FilenameTemplate: filename,
				ExtraArgs:        extraArgs,
				Verbose:          verbose,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(c.Root().Writer, result.Path)
			if result.ArchiveURI != "" {
				fmt.Fprintln(c.Root().Writer, result.ArchiveURI)
			}
			return nil
		},
	}
}

// sinkOptions wires the optional archiver and notifier
func sinkOptions(ctx context.Context, profile *config.Profile, archiveCfg *config.Archive, notifyCfg *config.Notify) ([]usecase.Option, func(), error) {
	var opts []usecase.Option
	cleanup := func() {}

	archiver, err := archiveCfg.Configure(ctx, profile)
	if err != nil {
		return nil, nil, err
	}
	if archiver != nil {
		opts = append(opts, usecase.WithArchiver(archiver))
		if closer, ok := archiver.(io.Closer); ok {
			cleanup = func() {
				if err := closer.Close(); err != nil {
					ctxlog.From(ctx).Warn("Failed to close archiver", "error", err)
				}
			}
		}
	}

	if notifier := notifyCfg.Configure(profile); notifier != nil {
		opts = append(opts, usecase.WithNotifier(notifier))
	}

	return opts, cleanup, nil
}
