// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/liftlog/liftlog/internal/config"
	"github.com/liftlog/liftlog/internal/xdg"
)

// Global flags available to all subcommands.
var (
	configFile string
	envFile    string
)

const defaultEnvFile = ".env"

// NewRootCmd creates the root command for the LiftLog CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liftlog",
		Short: "LiftLog - a workout tracker",
		Long: `LiftLog is a web application for logging workouts and the
exercises performed in them.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default: XDG_CONFIG_HOME/liftlog/config.yaml)")
	cmd.PersistentFlags().StringVar(&envFile, "env-file", defaultEnvFile, "dotenv file loaded before reading the environment")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewConfigCmd())

	return cmd
}

// loadOptions resolves the config sources for cmd. An explicit --config
// must exist; the XDG default is read only when present.
func loadOptions(cmd *cobra.Command) config.LoadOptions {
	opts := config.LoadOptions{
		File:     configFile,
		Required: configFile != "",
		EnvFile:  envFile,
		Flags:    cmd.Flags(),
	}
	if opts.File == "" {
		if path, err := xdg.ConfigFile(); err == nil {
			opts.File = path
		}
	}
	return opts
}
