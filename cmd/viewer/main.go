package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"teapot-viewer/internal/app"
	"teapot-viewer/internal/config"
	"teapot-viewer/internal/env"
	"teapot-viewer/internal/logger"
)

var (
	configFile string
	preset     string
	logLevel   string
	fullscreen bool
	envFile    string
)

// raylib must run on the main OS thread.
func init() {
	runtime.LockOSThread()
}

// main registers the commands and runs the viewer when no subcommand is given. Errors are
// logged once and exit with status 1.
func main() {
	rootCmd := &cobra.Command{
		Use:           "viewer",
		Short:         "interactive Utah teapot viewer",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          runViewer,
	}
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return env.Load(envFile)
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml), default "+config.DefaultPath)
	rootCmd.PersistentFlags().StringVar(&envFile, "env", env.DefaultPath, "dotenv file with TEAPOT_* overrides")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&fullscreen, "fullscreen", false, "open fullscreen")

	rootCmd.AddCommand(presetsCmd(), exportOBJCmd(), labelCmd(), initConfigCmd(), fetchSkyboxCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		log.Error().Err(err).Msg("viewer failed")
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	return config.Load(config.LoadOptions{Path: configFile, Preset: preset})
}

func runViewer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if fullscreen {
		cfg.Window.Fullscreen = true
	}
	log, err := logger.New(logger.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return err
	}
	defer log.Close()

	a, err := app.New(cfg, log)
	if err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	return a.Run(cmd.Context())
}
