package cmd

import (
	"github.com/spf13/cobra"

	"github.com/uptimeworks/predmaint/infra/logger"
)

var (
	analyticsFrom string
	analyticsTo   string
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Generate a maintenance analytics report",
	RunE:  analyticsRun,
}

func init() {
	analyticsCmd.Flags().StringVar(&analyticsFrom, "from", "", "period start (RFC3339, default now)")
	analyticsCmd.Flags().StringVar(&analyticsTo, "to", "", "period end (RFC3339, default now+30d)")
	rootCmd.AddCommand(analyticsCmd)
}

func analyticsRun(cmd *cobra.Command, args []string) error {
	svc, ctx, stop, err := newService()
	if err != nil {
		return err
	}
	defer stop()
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("analytics-command").Errorf("service close: %v", err)
		}
	}()

	period, err := parseWindow(analyticsFrom, analyticsTo)
	if err != nil {
		return err
	}
	report, err := svc.GenerateAnalytics(ctx, period)
	if err != nil {
		return err
	}
	return printJSON(report)
}
