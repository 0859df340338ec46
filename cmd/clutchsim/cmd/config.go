package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/sarchlab/motorclutch/clutch"
	"github.com/sarchlab/motorclutch/trial"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// FileConfig is the layout of a configuration file.
type FileConfig struct {
	Label string          `yaml:"label,omitempty"`
	Model clutch.Config   `yaml:"model"`
	Run   trial.RunConfig `yaml:"run"`
}

// Validate checks both sections and returns every problem found.
func (c FileConfig) Validate() error {
	var errs clutch.ConfigErrors

	collect := func(section string, err error) {
		if err == nil {
			return
		}

		var list clutch.ConfigErrors
		if !errors.As(err, &list) {
			errs = append(errs, clutch.ConfigError{
				Field: section, Reason: err.Error()})

			return
		}

		for _, e := range list {
			e.Field = section + "." + e.Field
			errs = append(errs, e)
		}
	}

	collect("model", c.Model.Validate())
	collect("run", c.Run.Validate())
	collect("model", c.Model.ValidateHorizon(c.Run.TimeLimit))

	if len(errs) == 0 {
		return nil
	}

	return errs
}

// LoadConfig starts from a preset and applies the keys found in the file, if
// a file is given.
func LoadConfig(presetName, path string) (FileConfig, error) {
	preset, err := trial.LookupPreset(presetName)
	if err != nil {
		return FileConfig{}, err
	}

	cfg := FileConfig{
		Label: preset.Label,
		Model: preset.Model,
		Run:   preset.Run,
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		return FileConfig{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

func loadFromFlags(cmd *cobra.Command) (FileConfig, error) {
	presetName, _ := cmd.Flags().GetString("preset")
	path, _ := cmd.Flags().GetString("config")

	return LoadConfig(presetName, path)
}

func newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadFromFlags(cmd)
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)

			if err := enc.Encode(cfg); err != nil {
				return err
			}

			return enc.Close()
		},
	}
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a configuration file and list every problem.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presetName, _ := cmd.Flags().GetString("preset")

			cfg, err := LoadConfig(presetName, args[0])
			if err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])

			return nil
		},
	}
}

func newPresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the parameter presets.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()

			for _, p := range trial.Presets() {
				fmt.Fprintf(w, "%-10s vp=%g stiffness_factor=%g "+
					"integrin_factor=%g time_limit=%gms  %s\n",
					p.Name, p.Model.Vp, p.Model.StiffnessFactor,
					p.Model.IntegrinFactor, p.Run.TimeLimit, p.Description)
			}

			return nil
		},
	}
}
