package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "sentinel",
		Short:         "Flag salaries that deviate from what a trained model predicts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "configs/config.yaml", "path to the YAML config (env CONFIG_PATH)")
	root.AddCommand(newCheckCmd(), newAuditCmd(), newServeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func resolveConfigPath(cmd *cobra.Command) string {
	if !cmd.Flags().Changed("config") {
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			return v
		}
	}
	return configPath
}
