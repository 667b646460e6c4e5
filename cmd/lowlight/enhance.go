package main

import (
	"fmt"

	"lowlight-enhancer/internal/batch"
	"lowlight-enhancer/internal/config"
	"lowlight-enhancer/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newEnhanceCommand() *cobra.Command {
	opts := config.Default()

	cmd := &cobra.Command{
		Use:   "enhance [files...]",
		Short: "Enhance images and write <name>_enhanced.jpg",
		Long: "Enhance each input with local contrast equalisation, a gamma lift and a\n" +
			"saturation boost. With --compare a labelled side-by-side PNG is written too.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}

			cfg.OutputDir = opts.OutputDir
			cfg.Compare = opts.Compare
			cfg.Backend = opts.Backend
			cfg.JPEGQuality = opts.JPEGQuality
			if cmd.Flags().Changed("workers") {
				cfg.Workers = opts.Workers
			}

			log := logger.NewConsoleLogger(cfg.LogLevel)

			manager, err := newAlgorithmManager()
			if err != nil {
				return err
			}

			runner, err := batch.NewRunner(cfg, manager, log)
			if err != nil {
				return err
			}

			results, err := runner.Run(cmd.Context(), args)
			if err != nil {
				log.Error("CLI", err, map[string]interface{}{
					"command": "enhance",
				})
				return err
			}

			out := cmd.OutOrStdout()
			for _, result := range results {
				fmt.Fprintf(out, "%s -> %s\n", result.Input, result.EnhancedPath)
				if result.ComparisonPath != "" {
					fmt.Fprintf(out, "%s -> %s\n", result.Input, result.ComparisonPath)
				}
			}
			return nil
		},
	}

	bindEnhanceFlags(cmd.Flags(), &opts)
	return cmd
}

func bindEnhanceFlags(flags *pflag.FlagSet, opts *config.Config) {
	flags.StringVarP(&opts.OutputDir, "out", "o", opts.OutputDir, "output directory")
	flags.BoolVar(&opts.Compare, "compare", opts.Compare, "also write a labelled comparison PNG")
	flags.StringVar(&opts.Backend, "backend", opts.Backend, "enhancement backend: native or opencv")
	flags.IntVarP(&opts.Workers, "workers", "j", opts.Workers, "images processed in parallel (default from LOWLIGHT_WORKERS or CPU count)")
	flags.IntVar(&opts.JPEGQuality, "quality", opts.JPEGQuality, "JPEG quality of the enhanced output")
}
