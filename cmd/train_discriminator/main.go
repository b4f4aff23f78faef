package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/auggraph/auggraph/trainer"
)

var (
	dataRoot   string
	dataName   string
	outRoot    string
	configPath string
	logName    string
	numSave    int
)

var rootCmd = &cobra.Command{
	Use:   "train_discriminator",
	Short: "Train a graph-pair discriminator on a TU-format dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := trainer.DefaultConfig()
		if configPath != "" {
			var err error
			if cfg, err = trainer.LoadConfig(configPath); err != nil {
				return err
			}
		}
		r, err := trainer.New(dataRoot, dataName, cfg)
		if err != nil {
			return err
		}
		fmt.Printf("training %s on %s\n", dataName, r.Device())
		return r.TrainTest(outRoot, numSave, logName)
	},
}

func init() {
	rootCmd.Flags().StringVar(&dataRoot, "data-root", "data", "directory holding the TU dataset collections")
	rootCmd.Flags().StringVar(&dataName, "dataset", "", "dataset name, e.g. MUTAG or IMDB-BINARY")
	rootCmd.Flags().StringVar(&outRoot, "out-root", "out", "directory receiving checkpoints and the run log")
	rootCmd.Flags().StringVar(&configPath, "config", "", "optional YAML hyperparameter file overriding the defaults")
	rootCmd.Flags().StringVar(&logName, "log-name", "record.txt", "run log file name inside the dataset output directory")
	rootCmd.Flags().IntVar(&numSave, "num-save", 30, "checkpoint the model during the final N epochs")
	rootCmd.MarkFlagRequired("dataset")
	rootCmd.SilenceUsage = true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
