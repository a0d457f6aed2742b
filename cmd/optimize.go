package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/uptimeworks/predmaint/core/model"
	"github.com/uptimeworks/predmaint/infra/logger"
)

var (
	optimizeFrom  string
	optimizeTo    string
	optimizeApply string
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Propose a fleet-level schedule optimization",
	RunE:  optimize,
}

func init() {
	optimizeCmd.Flags().StringVar(&optimizeFrom, "from", "", "period start (RFC3339, default now)")
	optimizeCmd.Flags().StringVar(&optimizeTo, "to", "", "period end (RFC3339, default now+30d)")
	optimizeCmd.Flags().StringVar(&optimizeApply, "apply", "", "apply a previously proposed run by id")
	rootCmd.AddCommand(optimizeCmd)
}

func parseWindow(from, to string) (model.TimeWindow, error) {
	w := model.TimeWindow{Start: time.Now(), End: time.Now().Add(30 * 24 * time.Hour)}
	if from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return model.TimeWindow{}, fmt.Errorf("parse --from: %w", err)
		}
		w.Start = t
	}
	if to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return model.TimeWindow{}, fmt.Errorf("parse --to: %w", err)
		}
		w.End = t
	}
	return w, nil
}

func optimize(cmd *cobra.Command, args []string) error {
	svc, ctx, stop, err := newService()
	if err != nil {
		return err
	}
	defer stop()
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("optimize-command").Errorf("service close: %v", err)
		}
	}()

	if optimizeApply != "" {
		run, err := svc.ApplyOptimization(ctx, optimizeApply)
		if err != nil {
			return err
		}
		return printJSON(run)
	}

	period, err := parseWindow(optimizeFrom, optimizeTo)
	if err != nil {
		return err
	}
	run, err := svc.Optimize(ctx, period, nil, model.OptimizationConstraints{})
	if err != nil {
		return err
	}
	return printJSON(run)
}
