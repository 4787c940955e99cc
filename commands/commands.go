// Package commands holds the ozoneboard command line: serving the dashboard, predicting from the
// terminal and printing the build version.
package commands

import (
	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ozoneboard",
		Short: "Ozone (O3) forecast dashboard backed by a pre-trained model.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().String("model", DefaultModelPath, "Path to the pre-trained model file.")
	cmd.PersistentFlags().String("log-format", "text", "Log format. One of 'text' or 'json'.")
	cmd.PersistentFlags().String("log-level", "info", "Log level. One of 'debug', 'info', 'warn' or 'error'.")

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addServe(topLevel)
	addPredict(topLevel)
	addVersion(topLevel)
}
