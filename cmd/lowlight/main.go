package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lowlight-enhancer/internal/algorithms"
	"lowlight-enhancer/internal/algorithms/opencv"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "lowlight",
		Short:         "Enhance poorly lit photographs",
		SilenceUsage:  true,
	}

	root.AddCommand(newEnhanceCommand(), newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lowlight %s\n", version)
		},
	}
}

// newAlgorithmManager registers every backend this binary links.
func newAlgorithmManager() (*algorithms.Manager, error) {
	manager, err := algorithms.NewManager()
	if err != nil {
		return nil, err
	}

	cvProcessor, err := opencv.NewProcessor()
	if err != nil {
		return nil, fmt.Errorf("create opencv processor: %w", err)
	}
	manager.Register(cvProcessor)

	return manager, nil
}
