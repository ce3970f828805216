// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vulntor/typedjob/cmd/typedjob/internal/format"
	"github.com/vulntor/typedjob/cmd/typedjob/internal/ops"
	"github.com/vulntor/typedjob/pkg/appctx"
	"github.com/vulntor/typedjob/pkg/config"
	"github.com/vulntor/typedjob/pkg/event"
	"github.com/vulntor/typedjob/pkg/job"
	"github.com/vulntor/typedjob/pkg/logging"
	"github.com/vulntor/typedjob/pkg/runner"
)

// ErrJobsFailed is returned by 'run' when at least one job finished with an error.
var ErrJobsFailed = errors.New("one or more jobs failed")

// jobRecord is one row of 'run' output.
type jobRecord struct {
	ID     string `json:"id" yaml:"id"`
	Input  string `json:"input" yaml:"input"`
	Output string `json:"output,omitempty" yaml:"output,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewRunCommand runs one job per input through the worker pool.
func NewRunCommand() *cobra.Command {
	var (
		opName    string
		inputFile string
	)

	cmd := &cobra.Command{
		Use:   "run [inputs...]",
		Short: "Run a batch of jobs",
		Long: `Run creates one pending job per input and drives every job to done on a
pool of workers, applying the selected op to its input.

Available ops: ` + strings.Join(ops.Names(), ", "),
		Example: `  typedjob run --op increment 1 2 3
  typedjob run --op upper --file words.txt -o json
  typedjob run --op square --runner.workers 8 10 20 30`,
		GroupID: "jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := append([]string(nil), args...)
			if inputFile != "" {
				lines, err := readInputs(inputFile)
				if err != nil {
					return err
				}
				inputs = append(inputs, lines...)
			}
			if len(inputs) == 0 {
				return errors.New("no inputs: pass them as arguments or with --file")
			}

			handler, err := ops.Handler(opName)
			if err != nil {
				return err
			}

			cfg := appctx.ConfigOrDefault(cmd.Context())
			records, err := runJobs(cmd.Context(), cfg.Runner, handler, inputs)
			if err != nil {
				return err
			}

			return printRecords(format.FromCommand(cmd), opName, records)
		},
	}

	cmd.Flags().StringVar(&opName, "op", "", "Op applied to every input ("+strings.Join(ops.Names(), ", ")+")")
	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "Read additional inputs from a file, one per line")
	_ = cmd.MarkFlagRequired("op")
	config.BindRunnerFlags(cmd.Flags())

	return cmd
}

// runJobs submits one job per input and collects every finished job. Records
// keep the order of inputs.
func runJobs(ctx context.Context, cfg config.RunnerConfig, handler runner.Handler[string, string], inputs []string) ([]jobRecord, error) {
	logger := logging.NewLogger("run")

	bus := event.New()
	bus.SubscribeAll(func(_ context.Context, e event.Event) {
		ev := logger.Debug().Str("event", string(e.Type)).Stringer("job_id", e.JobID).Str("stage", string(e.Stage))
		if e.Err != nil {
			ev = ev.Err(e.Err)
		}
		ev.Msg("job event")
	})

	r := runner.New(handler,
		runner.WithConcurrency(cfg.Workers),
		runner.WithQueueSize(cfg.QueueSize),
		runner.WithEventBus(bus),
		runner.WithLogger(logging.NewLogger("runner")),
	)
	if err := r.Start(ctx); err != nil {
		return nil, err
	}

	done := make(map[job.ID]runner.Result[string], len(inputs))
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for d := range r.Results() {
			done[d.ID()] = job.Output(d)
		}
	}()

	records := make([]jobRecord, 0, len(inputs))
	ids := make([]job.ID, 0, len(inputs))
	var submitErr error
	for _, in := range inputs {
		p := job.New(in)
		id := p.ID()
		if err := r.Submit(ctx, p); err != nil {
			submitErr = err
			break
		}
		ids = append(ids, id)
		records = append(records, jobRecord{ID: id.String(), Input: in})
	}

	stopErr := r.Stop(ctx)
	<-collected
	bus.Wait()

	if submitErr != nil {
		return nil, fmt.Errorf("submit: %w", submitErr)
	}
	if stopErr != nil {
		return nil, fmt.Errorf("stop runner: %w", stopErr)
	}

	status := r.Status()
	logger.Debug().
		Int64("submitted", status.Submitted).
		Int64("processed", status.Processed).
		Int64("failed", status.Failed).
		Msg("run finished")

	for i, id := range ids {
		res, ok := done[id]
		switch {
		case !ok:
			records[i].Error = "not finished"
		case res.Failed():
			records[i].Error = res.Err.Error()
		default:
			records[i].Output = res.Value
		}
	}

	return records, nil
}

func printRecords(f format.Formatter, opName string, records []jobRecord) error {
	summary := format.Summary{Operation: opName}
	for _, rec := range records {
		if rec.Error != "" {
			summary.Failed++
			summary.Errors = append(summary.Errors, format.ErrorDetail{JobID: rec.ID, Error: rec.Error})
			continue
		}
		summary.Succeeded++
	}

	if f.IsStructured() {
		if err := f.PrintData(map[string]any{
			"success": summary.Failed == 0,
			"jobs":    records,
			"summary": summary,
		}); err != nil {
			return err
		}
	} else {
		rows := make([][]string, 0, len(records))
		for _, rec := range records {
			rows = append(rows, []string{rec.ID, rec.Input, rec.Output, rec.Error})
		}
		if err := f.PrintTable([]string{"ID", "Input", "Output", "Error"}, rows); err != nil {
			return err
		}
		if err := f.PrintRunSummary(summary); err != nil {
			return err
		}
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrJobsFailed, summary.Failed, len(records))
	}
	return nil
}

func readInputs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open inputs: %w", err)
	}
	defer f.Close()

	var inputs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		inputs = append(inputs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read inputs: %w", err)
	}
	return inputs, nil
}
