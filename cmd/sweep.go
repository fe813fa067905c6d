package cmd

import (
	"github.com/harlequix/paritysim/internal/encoding"
	"github.com/harlequix/paritysim/metrics"
	"github.com/harlequix/paritysim/report"
	"github.com/harlequix/paritysim/simulation"
	"github.com/harlequix/paritysim/sweep"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Simulate every combination of block size, probability and method",
	Long: `sweep runs one simulation per (d, p, method) combination and prints the
efficiency of each. Without flags it reproduces the reference experiment:

  d      9, 16, 25
  p      0.0001, 0.001, 0.01, 0.05
  method parity_bit, parity_matrix`,
	Args: cobra.NoArgs,
	RunE: runSweep,
}

var metricsOut string

func init() {
	flags := sweepCmd.Flags()
	flags.IntSlice("d", []int{9, 16, 25}, "block sizes")
	flags.String("p", "0.0001,0.001,0.01,0.05", "comma-separated initial flip probabilities")
	flags.StringSlice("method", []string{string(encoding.ParityBit), string(encoding.ParityMatrix)}, "coding methods")
	flags.Int("workers", 0, "concurrent simulations (0: one per CPU)")
	flags.StringVar(&metricsOut, "metrics-out", "", "write Prometheus metrics to this file")
	rootCmd.AddCommand(sweepCmd)
}

// applySweepFlags copies explicitly set flags over the viper values.
func applySweepFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("d") {
		ds, err := flags.GetIntSlice("d")
		if err != nil {
			return err
		}
		viper.Set("Ds", ds)
	}
	if flags.Changed("p") {
		raw, err := flags.GetString("p")
		if err != nil {
			return err
		}
		ps, err := parseFloats(raw)
		if err != nil {
			return err
		}
		viper.Set("Ps", ps)
	}
	if flags.Changed("method") {
		names, err := flags.GetStringSlice("method")
		if err != nil {
			return err
		}
		methods := make([]string, 0, len(names))
		for _, name := range names {
			m, err := encoding.ParseMethod(name)
			if err != nil {
				return err
			}
			methods = append(methods, string(m))
		}
		viper.Set("Methods", methods)
	}
	if workers, _ := flags.GetInt("workers"); flags.Changed("workers") && workers > 0 {
		viper.Set("Workers", workers)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	if err := applySweepFlags(cmd); err != nil {
		return err
	}
	format, err := report.ParseFormat(viper.GetString("Format"))
	if err != nil {
		return err
	}
	cfg, err := sweep.LoadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var opts []simulation.Option
	var collector *metrics.Collector
	if metricsOut != "" {
		collector = metrics.New()
		opts = append(opts, simulation.WithObserver(collector))
	}
	results, err := sweep.Run(cmd.Context(), cfg, opts...)
	if err != nil {
		return err
	}

	w, closeOut, err := output(cmd)
	if err != nil {
		return err
	}
	if err := report.Write(w, format, results); err != nil {
		closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return err
	}
	if collector != nil {
		if err := collector.WriteToTextfile(metricsOut); err != nil {
			return err
		}
		logger.WithField("file", metricsOut).Info("metrics written")
	}
	return nil
}
