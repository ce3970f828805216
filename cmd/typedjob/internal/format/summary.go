// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package format

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Summary represents the totals of a batch of jobs
type Summary struct {
	Operation string        `json:"operation" yaml:"operation"`
	Succeeded int           `json:"succeeded" yaml:"succeeded"`
	Failed    int           `json:"failed" yaml:"failed"`
	Errors    []ErrorDetail `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// ErrorDetail represents a single failed job
type ErrorDetail struct {
	JobID string `json:"job_id" yaml:"job_id"`
	Error string `json:"error" yaml:"error"`
}

const maxErrorsToShow = 5

// PrintRunSummary prints the totals of a run
// Example output:
//
//	Summary:
//	  ✓ Succeeded: 3
//	  ✗ Failed:    1
//
//	Failed jobs:
//	  - 5f0c...: square: "abc" is not a number
func (f *formatter) PrintRunSummary(summary Summary) error {
	if f.quiet {
		return nil
	}

	if f.IsStructured() {
		return f.PrintData(map[string]any{
			"success": summary.Failed == 0,
			"summary": summary,
		})
	}

	var sb strings.Builder
	sb.WriteString("\nSummary:\n")
	line := fmt.Sprintf("  ✓ Succeeded: %d\n", summary.Succeeded)
	if f.color {
		line = color.GreenString("%s", line)
	}
	sb.WriteString(line)

	if summary.Failed > 0 {
		line = fmt.Sprintf("  ✗ Failed:    %d\n", summary.Failed)
		if f.color {
			line = color.RedString("%s", line)
		}
		sb.WriteString(line)
	}

	if len(summary.Errors) > 0 {
		sb.WriteString("\nFailed jobs:\n")
		for i, e := range summary.Errors {
			if i >= maxErrorsToShow {
				sb.WriteString(fmt.Sprintf("  ... and %d more (use --output json for full list)\n", len(summary.Errors)-maxErrorsToShow))
				break
			}
			sb.WriteString(fmt.Sprintf("  - %s: %s\n", e.JobID, e.Error))
		}
	}

	_, err := f.stdout.Write([]byte(sb.String()))
	return err
}
