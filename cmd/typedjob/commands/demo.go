// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vulntor/typedjob/cmd/typedjob/internal/format"
	"github.com/vulntor/typedjob/pkg/job"
	"github.com/vulntor/typedjob/pkg/variant/flagged"
	"github.com/vulntor/typedjob/pkg/variant/optional"
	"github.com/vulntor/typedjob/pkg/variant/tagged"
)

const (
	encodingTyped    = "typed"
	encodingTagged   = "tagged"
	encodingOptional = "optional"
	encodingFlagged  = "flagged"
)

var (
	pendingBadge = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")) // Yellow
	runningBadge = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")) // Cyan
	doneBadge    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")) // Green
	misuseBadge  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))  // Red
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244")) // Gray
)

// demoStep is one line of 'demo' output.
type demoStep struct {
	Encoding string `json:"encoding" yaml:"encoding"`
	Step     string `json:"step" yaml:"step"`
	Stage    string `json:"stage" yaml:"stage"`
	Detail   string `json:"detail" yaml:"detail"`
	Misuse   bool   `json:"misuse,omitempty" yaml:"misuse,omitempty"`
}

// NewDemoCommand walks one job through every encoding and shows how each
// reacts to an operation called in the wrong stage.
func NewDemoCommand() *cobra.Command {
	var input, result int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk one job through each lifecycle encoding",
		Long: `Demo creates a job with the given input, starts it and finishes it with the
given result, once with the type-checked job and once with each of the
runtime-checked encodings (tagged, optional, flagged). For every encoding it
also calls an operation in the wrong stage and shows the outcome.`,
		GroupID: "jobs",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			steps := demoSteps(input, result)

			f := format.FromCommand(cmd)
			if f.IsStructured() {
				return f.PrintData(steps)
			}

			noColor, _ := cmd.Flags().GetBool(format.FlagNoColor)
			renderSteps(cmd.OutOrStdout(), steps, noColor)
			return f.PrintSummary("Walked the job through 4 encodings")
		},
	}

	cmd.Flags().IntVar(&input, "input", 42, "Input the job is created with")
	cmd.Flags().IntVar(&result, "result", 43, "Output the job is finished with")

	return cmd
}

func demoSteps(input, result int) []demoStep {
	var steps []demoStep
	steps = append(steps, typedSteps(input, result)...)
	steps = append(steps, taggedSteps(input, result)...)
	steps = append(steps, optionalSteps(input, result)...)
	steps = append(steps, flaggedSteps(input, result)...)
	return steps
}

func typedSteps(input, result int) []demoStep {
	add := func(steps []demoStep, step string, stage job.StageName, detail string) []demoStep {
		return append(steps, demoStep{Encoding: encodingTyped, Step: step, Stage: string(stage), Detail: detail})
	}

	var steps []demoStep
	p := job.New(input)
	id := p.ID()
	steps = add(steps, "new", p.Stage(), fmt.Sprintf("id=%s input=%d", id, job.Input(p)))

	r := job.Start(&p)
	steps = add(steps, "start", r.Stage(), fmt.Sprintf("same id=%t, pending value consumed=%t", r.ID() == id, p.IsZero()))

	d := job.Finish(&r, result)
	steps = add(steps, "finish", d.Stage(), fmt.Sprintf("output=%d, running value consumed=%t", job.Output(d), r.IsZero()))

	steps = append(steps, demoStep{
		Encoding: encodingTyped,
		Step:     "finish again",
		Stage:    string(d.Stage()),
		Detail:   "rejected at compile time: job.Finish takes a *RunningJob, not a *DoneJob",
		Misuse:   true,
	})
	return steps
}

func taggedStage(j tagged.Job[int, int]) job.StageName {
	switch j.Status().(type) {
	case *tagged.StatusPending[int]:
		return job.StagePending
	case tagged.StatusRunning:
		return job.StageRunning
	default:
		return job.StageDone
	}
}

func taggedSteps(input, result int) []demoStep {
	add := func(steps []demoStep, step string, j tagged.Job[int, int], detail string, misuse bool) []demoStep {
		return append(steps, demoStep{Encoding: encodingTagged, Step: step, Stage: string(taggedStage(j)), Detail: detail, Misuse: misuse})
	}

	var steps []demoStep
	j := tagged.New[int, int](input)
	in, _ := j.Input()
	steps = add(steps, "new", j, fmt.Sprintf("id=%s input=%d", j.ID(), in), false)

	if _, err := j.Finish(result); err != nil {
		steps = add(steps, "finish while pending", j, "error: "+err.Error(), true)
	}

	j, _ = j.Start()
	steps = add(steps, "start", j, "ok", false)

	j, _ = j.Finish(result)
	out, _ := j.Output()
	steps = add(steps, "finish", j, fmt.Sprintf("output=%d", out), false)

	if _, ok := j.Input(); !ok {
		steps = add(steps, "input while done", j, "absent value (ok=false)", true)
	}
	return steps
}

func optionalSteps(input, result int) []demoStep {
	var steps []demoStep
	add := func(step string, stage job.StageName, detail string, misuse bool) {
		steps = append(steps, demoStep{Encoding: encodingOptional, Step: step, Stage: string(stage), Detail: detail, Misuse: misuse})
	}

	p := optional.New[int, int](input)
	in, _ := p.Input()
	add("new", job.StagePending, fmt.Sprintf("id=%s input=%d", p.ID(), in), false)

	if _, ok := p.Output(); !ok {
		add("output while pending", job.StagePending, "absent value (ok=false)", true)
	}

	r := optional.Start(p)
	add("start", job.StageRunning, "ok", false)

	d := optional.Finish(r, result)
	out, _ := d.Output()
	add("finish", job.StageDone, fmt.Sprintf("output=%d", out), false)
	return steps
}

func flaggedSteps(input, result int) []demoStep {
	add := func(steps []demoStep, step string, j flagged.Job[int, int], detail string, misuse bool) []demoStep {
		return append(steps, demoStep{Encoding: encodingFlagged, Step: step, Stage: j.Status().String(), Detail: detail, Misuse: misuse})
	}

	var steps []demoStep
	j := flagged.New[int, int](input)
	in, _ := j.Input()
	steps = add(steps, "new", j, fmt.Sprintf("id=%s input=%d", j.ID(), in), false)

	if err := recoverTransition(func() { j.Finish(result) }); err != nil {
		steps = add(steps, "finish while pending", j, "panic: "+err.Error(), true)
	}

	j = j.Run()
	steps = add(steps, "run", j, "ok", false)

	j = j.Finish(result)
	out, _ := j.Output()
	steps = add(steps, "finish", j, fmt.Sprintf("output=%d", out), false)
	return steps
}

// recoverTransition runs fn and returns the *flagged.TransitionError it
// panicked with, if any. Other panics are re-raised.
func recoverTransition(fn func()) (err error) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		var terr *flagged.TransitionError
		if e, ok := rec.(error); ok && errors.As(e, &terr) {
			err = terr
			return
		}
		panic(rec)
	}()
	fn()
	return nil
}

func badgeFor(stage string, misuse bool) lipgloss.Style {
	if misuse {
		return misuseBadge
	}
	switch job.StageName(stage) {
	case job.StagePending:
		return pendingBadge
	case job.StageRunning:
		return runningBadge
	default:
		return doneBadge
	}
}

func renderSteps(w io.Writer, steps []demoStep, noColor bool) {
	render := func(style lipgloss.Style, s string) string {
		if noColor {
			return s
		}
		return style.Render(s)
	}

	current := ""
	for _, s := range steps {
		if s.Encoding != current {
			if current != "" {
				fmt.Fprintln(w)
			}
			current = s.Encoding
			fmt.Fprintln(w, render(headerStyle, strings.ToUpper(s.Encoding)))
		}
		badge := fmt.Sprintf("[%-7s]", s.Stage)
		if s.Misuse {
			badge = "[misuse ]"
		}
		fmt.Fprintf(w, "  %s %-22s %s\n", render(badgeFor(s.Stage, s.Misuse), badge), s.Step, render(detailStyle, s.Detail))
	}
	fmt.Fprintln(w)
}
