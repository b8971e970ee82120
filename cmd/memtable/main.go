package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nStangl/rw-memtable/config"
	"github.com/nStangl/rw-memtable/memtable"
	"github.com/nStangl/rw-memtable/util"
	"github.com/nStangl/rw-memtable/workload"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const version = "0.0.1"

var (
	cfg        = config.Default()
	configPath string
	rootCmd    = &cobra.Command{
		Use:     "memtable",
		Short:   "concurrent readers and writers on a fixed-capacity memtable",
		Long:    "Runs writer and reader goroutines against one memtable guarded by a single reader-writer lock and reports the outcome",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			cmd.SilenceUsage = true

			if err := loadConfig(cmd.Flags()); err != nil {
				return err
			}

			if unparsed := util.ExtractUnknownArgs(cmd.Flags(), args); len(unparsed) == 1 {
				cfg.Loglevel = unparsed[0]
			}

			util.SetLogLevel(cfg.Loglevel, os.Stderr)

			if err := cfg.Validate(); err != nil {
				return err
			}

			table, err := memtable.New(cfg.Capacity)
			if err != nil {
				return fmt.Errorf("failed to create memtable: %w", err)
			}

			log.Infof("created memtable with capacity %d", cfg.Capacity)

			// Catch the interrupts (ctrl+c)
			quit := make(chan os.Signal, 1)

			signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(quit)

			go func() {
				select {
				case <-quit:
					log.Info("interrupted, stopping workers")
					cancel()
				case <-ctx.Done():
				}
			}()

			runner := workload.NewRunner(cfg, table)

			report, err := runner.Run(ctx)
			if err != nil {
				return fmt.Errorf("run %s failed: %w", runner.ID(), err)
			}

			if err := report.Print(os.Stdout, cfg.Histogram); err != nil {
				return fmt.Errorf("failed to print report: %w", err)
			}

			if cfg.CSV != "" {
				if err := report.WriteCSV(cfg.CSV); err != nil {
					return fmt.Errorf("failed to write latencies: %w", err)
				}

				log.Infof("wrote latency samples to %s", cfg.CSV)
			}

			return nil
		},
	}
)

func init() {
	log.SetLevel(log.InfoLevel)
	log.SetOutput(os.Stdout)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "f", "", "YAML file with the run configuration, flags given explicitly take precedence")
	rootCmd.PersistentFlags().IntVarP(&cfg.Capacity, "capacity", "c", cfg.Capacity, "Number of slots in the memtable")
	rootCmd.PersistentFlags().IntVarP(&cfg.Writers, "writers", "w", cfg.Writers, "Number of writer goroutines")
	rootCmd.PersistentFlags().IntVarP(&cfg.Readers, "readers", "r", cfg.Readers, "Number of reader goroutines")
	rootCmd.PersistentFlags().IntVar(&cfg.WriterOps, "writer-ops", cfg.WriterOps, "Upserts per writer")
	rootCmd.PersistentFlags().IntVar(&cfg.ReaderOps, "reader-ops", cfg.ReaderOps, "Lookup rounds per reader")
	rootCmd.PersistentFlags().DurationVar(&cfg.WriterDelay, "writer-delay", cfg.WriterDelay, "Pause between two upserts of a writer")
	rootCmd.PersistentFlags().DurationVar(&cfg.ReaderDelay, "reader-delay", cfg.ReaderDelay, "Pause between two lookup rounds of a reader")
	rootCmd.PersistentFlags().IntVar(&cfg.KeyStride, "key-stride", cfg.KeyStride, "Distance between the key ranges of two writers")
	rootCmd.PersistentFlags().IntVar(&cfg.ValueFactor, "value-factor", cfg.ValueFactor, "Writers store key*factor as value")
	rootCmd.PersistentFlags().StringVarP(&cfg.Loglevel, "loglevel", "o", cfg.Loglevel, "Loglevel, e.g., INFO, ALL, . . .")
	rootCmd.PersistentFlags().BoolVar(&cfg.Histogram, "histogram", cfg.Histogram, "Print latency histograms")
	rootCmd.PersistentFlags().StringVar(&cfg.CSV, "csv", cfg.CSV, "Write latency samples to this CSV file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'\n", err)
		os.Exit(1)
	}
}

// loadConfig replaces cfg with the config file, if any, and
// then applies the flags set on the command line again.
func loadConfig(flags *pflag.FlagSet) error {
	if configPath == "" {
		return nil
	}

	fileCfg, err := config.FromFile(configPath)
	if err != nil {
		return err
	}

	changed := make(map[string]string)

	flags.Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})

	cfg = *fileCfg

	for name, value := range changed {
		if err := flags.Set(name, value); err != nil {
			return fmt.Errorf("failed to apply flag --%s: %w", name, err)
		}
	}

	return nil
}
