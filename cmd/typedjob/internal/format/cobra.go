package format

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Names of the output flags shared by every typedjob command.
const (
	FlagOutput  = "output"
	FlagQuiet   = "quiet"
	FlagNoColor = "no-color"
)

// BindFlags defines the output flags FromCommand reads.
func BindFlags(flags *pflag.FlagSet) {
	flags.StringP(FlagOutput, "o", string(ModeTable), "Output format (table, json, yaml)")
	flags.BoolP(FlagQuiet, "q", false, "Suppress summary output")
	flags.Bool(FlagNoColor, false, "Disable colored output")
}

// FromCommand builds a Formatter writing to the command's out and err
// streams and honouring the flags defined by BindFlags. A command without
// those flags gets a coloured table formatter.
func FromCommand(cmd *cobra.Command) Formatter {
	flags := cmd.Flags()

	mode := ModeTable
	if v, err := flags.GetString(FlagOutput); err == nil {
		mode = ParseMode(v)
	}
	quiet, _ := flags.GetBool(FlagQuiet)
	noColor, _ := flags.GetBool(FlagNoColor)

	return New(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode, quiet, !noColor)
}

// ModeFromCommand returns the validated output mode requested on cmd.
func ModeFromCommand(cmd *cobra.Command) (OutputMode, error) {
	v, err := cmd.Flags().GetString(FlagOutput)
	if err != nil {
		return ModeTable, nil
	}
	if err := ValidateMode(v); err != nil {
		return "", err
	}
	return ParseMode(v), nil
}
