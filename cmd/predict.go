package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/uptimeworks/predmaint/app"
	"github.com/uptimeworks/predmaint/infra/logger"
)

var predictCmd = &cobra.Command{
	Use:   "predict [equipment-id...]",
	Short: "Compute failure predictions for equipment ids",
	Args:  cobra.MinimumNArgs(1),
	RunE:  predict,
}

func init() {
	rootCmd.AddCommand(predictCmd)
}

// newService builds a one-shot service for CLI commands.
func newService() (*app.Service, context.Context, context.CancelFunc, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cfg, err := loadConfig()
	if err != nil {
		stop()
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg, app.Deps{})
	if err != nil {
		stop()
		return nil, nil, nil, err
	}
	return svc, ctx, stop, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func predict(cmd *cobra.Command, args []string) error {
	svc, ctx, stop, err := newService()
	if err != nil {
		return err
	}
	defer stop()
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("predict-command").Errorf("service close: %v", err)
		}
	}()

	preds, err := svc.PredictFailures(ctx, args)
	if err != nil {
		return err
	}
	return printJSON(preds)
}
