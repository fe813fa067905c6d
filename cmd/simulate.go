package cmd

import (
	"errors"

	"github.com/harlequix/paritysim/internal/encoding"
	"github.com/harlequix/paritysim/report"
	"github.com/harlequix/paritysim/simulation"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Retransmit one message until the receiver accepts it",
	Long: `simulate generates one random message, encodes it once and sends noisy
copies until the receiver accepts one. For example:

  paritysim simulate --d 16 --p 0.01 --method parity_matrix`,
	Args: cobra.NoArgs,
	RunE: simulate,
}

func init() {
	flags := simulateCmd.Flags()
	flags.Int("d", 9, "block size; a perfect square for parity_matrix")
	flags.Float64("p", 0.01, "initial flip probability in [0,1)")
	flags.String("method", string(encoding.ParityBit), "parity_bit or parity_matrix")
	for key, name := range map[string]string{"D": "d", "P": "p", "Method": "method"} {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
	rootCmd.AddCommand(simulateCmd)
}

func simulate(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(viper.GetString("Format"))
	if err != nil {
		return err
	}
	cfg, err := simulation.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.Method, err = encoding.ParseMethod(string(cfg.Method)); err != nil {
		return err
	}
	sim, err := simulation.New(cfg, nil)
	if err != nil {
		return err
	}

	res, runErr := sim.Run(cmd.Context())
	if runErr != nil && !errors.Is(runErr, simulation.ErrNotConverged) {
		return runErr
	}
	w, closeOut, err := output(cmd)
	if err != nil {
		return err
	}
	if err := report.Write(w, format, []*simulation.Result{res}); err != nil {
		closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return err
	}
	return runErr
}
