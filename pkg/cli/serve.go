package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pagecap/pkg/cli/config"
	controller "github.com/m-mizutani/pagecap/pkg/controller/http"
	"github.com/m-mizutani/pagecap/pkg/infra/browser"
	"github.com/m-mizutani/pagecap/pkg/infra/process"
	"github.com/m-mizutani/pagecap/pkg/infra/singlefile"
	"github.com/m-mizutani/pagecap/pkg/usecase"
	"github.com/m-mizutani/pagecap/pkg/utils/async"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg  config.Server
		outputCfg  config.Output
		captureCfg config.Capture
		archiveCfg config.Archive
		notifyCfg  config.Notify
	)

	flags := append(serverCfg.Flags(), outputCfg.Flags()...)
	flags = append(flags, captureCfg.Flags()...)
	flags = append(flags, archiveCfg.Flags()...)
	flags = append(flags, notifyCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server accepting capture requests",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

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

			locator := singlefile.NewLocator()
			captureUC := usecase.NewCapture(process.NewRunner(), locator, opts...)
			strategy := usecase.SelectStrategy(locator.Locate(settings.ToolDir))

			logger.Info("Starting pagecap server",
				slog.String("addr", serverCfg.Addr),
				slog.String("output_dir", outputCfg.Dir),
				slog.String("browser", settings.BrowserPath),
				slog.String("strategy", string(strategy)),
				slog.Bool("signature_required", serverCfg.Secret != ""),
			)

			server, err := controller.NewServer(
				ctx,
				captureUC,
				settings,
				controller.WithAddr(serverCfg.Addr),
				controller.WithSecret(serverCfg.Secret),
				controller.WithOutputDir(outputCfg.Dir),
				controller.WithStrategy(strategy),
				controller.WithDispatcher(async.New()),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			serveErr := make(chan error, 1)
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					serveErr <- err
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			select {
			case err := <-serveErr:
				return goerr.Wrap(err, "HTTP server failed", goerr.V("addr", serverCfg.Addr))
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// running captures may take up to the capture timeout to finish
			shutdownCtx, cancel := context.WithTimeout(context.Background(), settings.Timeout+10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
