package simcmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robotalks/uartsim/pkg/sim"
)

var defaultBauds = []int{9600, 4800, 2400, 1200, 300}

var sweepCmd = &cobra.Command{
	Use:   "sweep [NAME]",
	Short: "Run the transfer once per receiver baud rate and compare",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := "sweep"
		if len(args) > 0 {
			name = args[0]
		}
		sc, err := scenarioFromConfig(viper.GetViper(), name)
		if err != nil {
			return err
		}
		bauds, err := sweepBauds(viper.GetIntSlice("bauds"))
		if err != nil {
			return err
		}
		return withOutputs(func(ctx context.Context, o *outputs) error {
			results, err := sim.Sweep(ctx, sc, bauds, o.listeners...)
			if err != nil {
				return err
			}
			if err := o.publish(results...); err != nil {
				return err
			}
			return writeResults(cmd.OutOrStdout(), results, viper.GetBool("json"))
		})
	},
}

func init() {
	sweepCmd.Flags().IntSlice("bauds", defaultBauds, "receiver baud rates to run")
	_ = viper.BindPFlag("bauds", sweepCmd.Flags().Lookup("bauds"))
}
