package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	log "github.com/harlequix/paritysim/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configFile string
	logLevel   string
	tracePath  string
)

var logger = log.NewLogger("cmd")

var rootCmd = &cobra.Command{
	Use:   "paritysim",
	Short: "Simulate parity-protected transmissions over a bit-flip channel",
	Long: `paritysim sends a random message through a noisy channel that flips every
bit with probability p. The message is protected by a single parity bit per
block or by a 2-D parity matrix that corrects single errors. Rejected
transmissions are retried with p lowered by a small epsilon until the receiver
accepts one; efficiency is 1/attempts.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (yaml, json or toml)")
	flags.StringVar(&logLevel, "log-level", "warn", "trace, debug, info, warn or error")
	flags.StringVar(&tracePath, "trace", "", "write trace and warn entries as JSON to PATH.trace and PATH.warn")
	flags.String("format", "table", "report format: table, markdown, json or yaml")
	flags.String("out", "", "write the report to this file instead of stdout")

	flags.Int("length", 500, "message length in bits")
	flags.Float64("epsilon", 0.00001, "decrease of p after every rejected transmission")
	flags.Int("max-attempts", 0, "give up after this many transmissions (0: no cap)")
	flags.Int64("seed", 0, "random seed (0: seed from the clock)")
	mustBind("MessageLength", "length")
	mustBind("Epsilon", "epsilon")
	mustBind("MaxAttempts", "max-attempts")
	mustBind("Seed", "seed")
	mustBind("Format", "format")
	mustBind("Out", "out")
	viper.SetDefault("Format", "table")
}

func mustBind(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	if err := log.SetLevel(logLevel); err != nil {
		return err
	}
	if tracePath != "" {
		log.AddTracer(tracePath)
	}
	return SetConfig(configFile)
}

// SetConfig merges configFile, if any, into viper.
func SetConfig(configFile string) error {
	if configFile == "" {
		return nil
	}
	viper.SetConfigFile(configFile)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", configFile, err)
	}
	logger.WithField("file", viper.ConfigFileUsed()).Debug("config loaded")
	return nil
}

// parseFloats reads a comma-separated list such as "0.001,0.01".
func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("bad probability %q: %w", part, err)
		}
		out = append(out, f)
	}
	return out, nil
}

// output opens the report destination chosen with --out.
func output(cmd *cobra.Command) (io.Writer, func() error, error) {
	path := viper.GetString("Out")
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		logger.WithError(err).Error("paritysim failed")
		os.Exit(1)
	}
}
