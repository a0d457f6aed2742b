package cmd

import (
	"github.com/spf13/cobra"

	"github.com/uptimeworks/predmaint/core/model"
	"github.com/uptimeworks/predmaint/core/scheduler"
	"github.com/uptimeworks/predmaint/infra/logger"
)

var scheduleStrategy string

var scheduleCmd = &cobra.Command{
	Use:   "schedule [equipment-id...]",
	Short: "Build maintenance schedules for equipment ids",
	Args:  cobra.MinimumNArgs(1),
	RunE:  schedule,
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleStrategy, "strategy", "", "timing strategy: condition_based, time_based or hybrid")
	rootCmd.AddCommand(scheduleCmd)
}

func schedule(cmd *cobra.Command, args []string) error {
	svc, ctx, stop, err := newService()
	if err != nil {
		return err
	}
	defer stop()
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("schedule-command").Errorf("service close: %v", err)
		}
	}()

	res, err := svc.CreateSchedules(ctx, args, scheduler.Options{Strategy: model.Strategy(scheduleStrategy)})
	if err != nil {
		return err
	}
	return printJSON(res)
}
