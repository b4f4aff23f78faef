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
	checkpoint string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "infer_discriminator",
	Short: "Evaluate a discriminator checkpoint on a TU-format dataset",
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
		if err := r.LoadCheckpoint(checkpoint); err != nil {
			return err
		}
		acc, posAcc, negAcc, err := r.Evaluate(r.ValidationSet())
		if err != nil {
			return err
		}
		fmt.Printf("validation accuracy %v, accuracy of positive samples %v, accuracy of negative samples %v\n", acc, posAcc, negAcc)
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&dataRoot, "data-root", "data", "directory holding the TU dataset collections")
	rootCmd.Flags().StringVar(&dataName, "dataset", "", "dataset name, e.g. MUTAG or IMDB-BINARY")
	rootCmd.Flags().StringVar(&checkpoint, "checkpoint", "", "checkpoint file written during training")
	rootCmd.Flags().StringVar(&configPath, "config", "", "optional YAML hyperparameter file; must match the checkpoint")
	rootCmd.MarkFlagRequired("dataset")
	rootCmd.MarkFlagRequired("checkpoint")
	rootCmd.SilenceUsage = true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
