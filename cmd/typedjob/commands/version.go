// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vulntor/typedjob/cmd/typedjob/internal/format"
	v "github.com/vulntor/typedjob/pkg/version"
)

// NewVersionCommand prints build metadata.
func NewVersionCommand() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:     "version",
		Short:   "Print version information",
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := v.GetVersion()
			f := format.FromCommand(cmd)
			if f.IsStructured() {
				if short {
					return f.PrintData(map[string]string{"version": info.Version})
				}
				return f.PrintData(info)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s version: %s\n", cliExecutable, info.Version)
			if short {
				return nil
			}
			if info.Tag != "" {
				fmt.Fprintf(out, "Tag: %s\n", info.Tag)
			}
			if info.Commit != "" {
				fmt.Fprintf(out, "Commit: %s\n", info.Commit)
			}
			fmt.Fprintf(out, "Build Date: %s\n", info.BuildDate)
			fmt.Fprintf(out, "Go Version: %s\n", info.GoVersion)
			fmt.Fprintf(out, "Compiler: %s\n", info.Compiler)
			fmt.Fprintf(out, "Platform: %s\n", info.Platform)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version number")

	return cmd
}
