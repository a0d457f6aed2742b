package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/uptimeworks/predmaint/api/maintenance"
	"github.com/uptimeworks/predmaint/app"
	"github.com/uptimeworks/predmaint/config"
	"github.com/uptimeworks/predmaint/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "predmaint",
	Short: "Predictive maintenance scheduling engine",
	RunE:  serve,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// loadConfig reads the configured file, falling back to defaults when no
// file exists at the default location.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(cfgPath); errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return config.Load(cfgPath)
}

func serve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New("main")
	svc, err := app.New(cfg, app.Deps{})
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logg.Errorf("service close: %v", err)
		}
	}()

	server := &http.Server{
		Addr:    cfg.API.Addr,
		Handler: maintenance.NewHandler(svc, logger.New("api")),
	}
	go func() {
		logg.Infof("maintenance API listening on %s", cfg.API.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Errorf("http server: %v", err)
			stop()
		}
	}()
	go func() {
		if err := svc.Run(ctx); err != nil {
			logg.Errorf("service run: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.API.ShutdownTimeoutMS)*time.Millisecond)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
