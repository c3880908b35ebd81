package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jj-repository/autoclicker"
	"github.com/jj-repository/autoclicker/internal/cli"
	"github.com/jj-repository/autoclicker/internal/config"
	"github.com/jj-repository/autoclicker/internal/httpapi"
	"github.com/jj-repository/autoclicker/internal/logging"
	"github.com/jj-repository/autoclicker/internal/update"
	"github.com/jj-repository/autoclicker/pkg/adapters/github"
	hookadapter "github.com/jj-repository/autoclicker/pkg/adapters/hook"
	robotadapter "github.com/jj-repository/autoclicker/pkg/adapters/robotgo"
	"github.com/jj-repository/autoclicker/pkg/adapters/tray"
	"github.com/jj-repository/autoclicker/pkg/ports"
)

// autoCheckDelay gives the engine time to come up before the startup
// update check hits the network.
const autoCheckDelay = 2 * time.Second

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the hotkey engine",
	Long: `Installs the global key hook and runs the configured slots until
interrupted. Hotkeys toggle slots; the emergency-stop hotkey halts
everything at once.`,
	RunE: runEngine,
}

func init() {
	runCmd.Flags().String("listen", "", "Serve the control API on this address (e.g. 127.0.0.1:8422)")
	runCmd.Flags().Bool("tray", false, "Show a system tray icon")
	rootCmd.AddCommand(runCmd)
}

func runEngine(cmd *cobra.Command, args []string) error {
	opts, err := config.OptionsFromEnv()
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("config"); v != "" {
		opts.ConfigPath = v
	}
	if v, _ := cmd.Flags().GetString("profile"); v != "" {
		opts.ProfilePath = v
	}
	if v, _ := cmd.Flags().GetString("listen"); v != "" {
		opts.Listen = v
	}
	if v, _ := cmd.Flags().GetBool("debug"); v {
		opts.Debug = true
	}
	useTray, _ := cmd.Flags().GetBool("tray")

	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	log := logging.New(level)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	console := cli.NewConsole(os.Stdout)
	var notifier ports.Notifier = console
	var trayUI *tray.Notifier
	if useTray {
		trayUI = tray.New(cancel)
		notifier = cli.MultiNotifier(console, trayUI)
	}

	app, err := cli.NewApp(cli.Deps{
		Actuator:    robotadapter.NewActuator(),
		Listeners:   hookadapter.Factory(),
		Notifier:    notifier,
		Logger:      log,
		ConfigPath:  opts.ConfigPath,
		ProfilePath: opts.ProfilePath,
	})
	if err != nil {
		return err
	}

	target, err := os.Executable()
	if err != nil {
		return err
	}
	feed := github.NewFeed(releaseOwner, releaseRepo, autoclicker.Version)
	pipeline := update.New(feed, autoclicker.Version, target,
		update.WithLogger(log),
		update.WithNotifier(notifier),
		update.WithMetrics(app.Metrics),
	)

	var apiSrv *http.Server
	start := func() error {
		if err := app.Engine.Start(); err != nil {
			return err
		}
		log.Info("engine started",
			"slots", len(app.Engine.Slots()),
			"emergency_stop", app.Engine.EmergencyHotkey().String())

		if opts.Listen != "" {
			api := httpapi.NewServer(app.Engine, autoclicker.Version,
				httpapi.WithUpdater(pipeline),
				httpapi.WithMetricsRegistry(app.Registry),
				httpapi.WithLogger(log),
			)
			apiSrv = &http.Server{Addr: opts.Listen, Handler: api.Handler()}
			go func() {
				log.Info("control API listening", "addr", opts.Listen)
				if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("control API stopped", "error", err)
				}
			}()
		}

		if app.Config.AutoCheckUpdates {
			go pipeline.AutoCheck(ctx, autoCheckDelay)
		}
		return nil
	}

	stop := func() {
		app.Engine.Shutdown()
		if apiSrv != nil {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			if err := apiSrv.Shutdown(shutdownCtx); err != nil {
				log.Warn("control API shutdown", "error", err)
			}
		}
	}

	if trayUI != nil {
		trayUI.OnCheckUpdates(func() {
			if info, newer, err := pipeline.Check(ctx); err == nil && newer {
				log.Info("update available", "tag", info.Tag)
			}
		})
		// systray owns the calling goroutine; the engine lifecycle runs
		// from its onReady callback.
		var startErr error
		trayUI.Run(func() {
			if startErr = start(); startErr != nil {
				cancel()
				trayUI.Quit()
				return
			}
			<-ctx.Done()
			stop()
			trayUI.Quit()
		})
		return startErr
	}

	if err := start(); err != nil {
		return err
	}
	<-ctx.Done()
	log.Info("shutting down")
	stop()
	return nil
}
