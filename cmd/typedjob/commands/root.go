// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package commands

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vulntor/typedjob/cmd/typedjob/internal/format"
	"github.com/vulntor/typedjob/pkg/appctx"
	"github.com/vulntor/typedjob/pkg/config"
	"github.com/vulntor/typedjob/pkg/logging"
)

const cliExecutable = "typedjob"

// NewCommand constructs the top-level typedjob CLI command, wiring global
// flags, configuration loading and logging.
func NewCommand() *cobra.Command {
	var (
		configFile     string
		verbosityCount int
	)

	cmd := &cobra.Command{
		Use:   cliExecutable,
		Short: "typedjob drives jobs through a compile-time checked lifecycle",
		Long: `typedjob runs jobs through the Pending -> Running -> Done lifecycle.

The job stage is part of the job's type, so calling an operation in the wrong
stage is rejected by the compiler rather than at runtime.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := format.ModeFromCommand(cmd); err != nil {
				return err
			}

			mgr := config.NewManager()
			if err := mgr.Load(cmd.Flags(), configFile); err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg := mgr.Get()

			if cfg.Log.File != "" {
				if err := logging.SetLogFile(cfg.Log.File); err != nil {
					return err
				}
			} else {
				logging.SetLogWriter(cmd.ErrOrStderr())
			}

			level := logging.LevelFromVerbosity(cfg.Log.Level, verbosityCount)
			if err := logging.ConfigureGlobalLogging(level, cfg.Log.Format); err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}
			log.Debug().Str("config", configFile).Str("level", level).Msg("configuration loaded")

			ctx := appctx.WithConfig(cmd.Context(), mgr)
			cmd.SetContext(ctx)
			if root := cmd.Root(); root != nil && root != cmd {
				root.SetContext(ctx)
			}
			return nil
		},
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path")
	cmd.PersistentFlags().CountVarP(&verbosityCount, "verbosity", "v", "Increase logging verbosity (repeatable)")
	format.BindFlags(cmd.PersistentFlags())

	config.BindFlags(cmd.PersistentFlags())

	cmd.AddGroup(&cobra.Group{ID: "jobs", Title: "Job Commands"})
	cmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands"})

	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewDemoCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// Execute runs root and renders a returned error through the formatter of
// the command that failed. A failed run in structured mode already reported
// itself in the output document. The log file opened for the run is closed
// on every path.
func Execute(root *cobra.Command) error {
	defer func() {
		if err := logging.CloseLogFile(); err != nil {
			fmt.Fprintf(root.ErrOrStderr(), "close log file: %v\n", err)
		}
	}()

	cmd, err := root.ExecuteC()
	if err == nil {
		return nil
	}
	if cmd == nil {
		cmd = root
	}

	f := format.FromCommand(cmd)
	if errors.Is(err, ErrJobsFailed) && f.IsStructured() {
		return err
	}
	if perr := f.PrintError(err); perr != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}
