package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmukit/vmufuse/internal/env"
)

func Execute() error {
	rootCmd := &cobra.Command{
		Use:     env.AppName,
		Short:   env.AppName + " - Dreamcast VMU memory card filesystem tool",
		Version: fmt.Sprintf("%s (commit %s, built %s)", env.Version, env.CommitHash, env.BuildTime),
	}

	rootCmd.AddCommand(DefineMountCommand())
	rootCmd.AddCommand(DefineInfoCommand())
	rootCmd.AddCommand(DefineLsCommand())
	rootCmd.AddCommand(DefineExtractCommand())
	rootCmd.AddCommand(DefineCheckCommand())
	rootCmd.AddCommand(DefineFormatCommand())

	return rootCmd.Execute()
}
