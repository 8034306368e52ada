// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

package main

import (
	"encoding/json"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/liftlog/liftlog/internal/config"
)

// NewConfigCmd creates the config subcommand.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSchemaCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadUnvalidated(loadOptions(cmd))
			if err != nil {
				return err
			}
			out, err := formatConfig(cfg.Redacted(), format)
			if err != nil {
				return err
			}
			cmd.Print(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "output format (yaml or json)")
	return cmd
}

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := config.Schema()
			if err != nil {
				return err
			}
			cmd.Println(string(schema))
			return nil
		},
	}
}

// formatConfig renders cfg using its JSON field names in either format.
func formatConfig(cfg config.Config, format string) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", oops.Code("CONFIG_ENCODE_FAILED").Wrap(err)
	}

	switch format {
	case "json":
		return string(data) + "\n", nil
	case "yaml":
		var tree map[string]any
		if err := json.Unmarshal(data, &tree); err != nil {
			return "", oops.Code("CONFIG_ENCODE_FAILED").Wrap(err)
		}
		out, err := yaml.Marshal(tree)
		if err != nil {
			return "", oops.Code("CONFIG_ENCODE_FAILED").Wrap(err)
		}
		return string(out), nil
	default:
		return "", oops.Code("CONFIG_INVALID_FORMAT").
			With("format", format).
			Errorf("unknown format %q (want yaml or json)", format)
	}
}
