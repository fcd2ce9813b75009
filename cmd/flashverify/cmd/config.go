package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javi11/flashverify/internal/config"
)

var forceInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file with default values",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "flashverify.yaml"
		if len(args) == 1 {
			path = args[0]
		}

		fs := newFs()
		if _, err := fs.Stat(path); err == nil && !forceInit {
			return fmt.Errorf("%s already exists, use --force to overwrite it", path)
		}

		if err := config.SaveToFile(fs, config.DefaultConfig(), path); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
