// Package cmd provides the command-line interface of clutchsim.
package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Environment variables that provide flag defaults. They can be set in a
// .env file in the working directory.
const (
	EnvOut         = "CLUTCHSIM_OUT"
	EnvFormat      = "CLUTCHSIM_FORMAT"
	EnvMonitorPort = "CLUTCHSIM_MONITOR_PORT"
)

// NewRootCommand creates the clutchsim command with all its subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "clutchsim",
		Short: "Run stochastic trials of the motor-clutch model.",
		Long: `clutchsim simulates a growing ensemble of molecular clutches ` +
			`that couple a retrograde actin flow to a substrate, switches ` +
			`the substrate stiffness periodically, and writes snapshots of ` +
			`every trial as flat tables.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "",
		"YAML file with model and run sections")
	rootCmd.PersistentFlags().StringP("preset", "p", "factor20",
		"parameter preset the config file is applied on top of")

	rootCmd.AddCommand(
		newRunCommand(),
		newConfigCommand(),
		newValidateCommand(),
		newPresetsCommand(),
		newInspectCommand(),
	)

	return rootCmd
}

// Execute loads .env and runs the root command.
func Execute() error {
	if err := loadDotEnv(".env"); err != nil {
		return err
	}

	return NewRootCommand().Execute()
}

// loadDotEnv loads a dotenv file if it exists. Variables already set in the
// environment win.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}

	return fallback
}
