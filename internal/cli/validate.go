package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SniraJavas/EcommerceWebApp/internal/fixtures"
	"github.com/SniraJavas/EcommerceWebApp/internal/scenario"
)

// ValidationProblem is one rejected file with the reason.
type ValidationProblem struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

// ValidationResult holds validation results over all named files.
type ValidationResult struct {
	Valid    bool                `json:"valid"`
	Checked  int                 `json:"checked"`
	Problems []ValidationProblem `json:"problems,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file...>",
		Short: "Validate scenario and catalog files",
		Long: `Validate scenario YAML files and CUE catalogs without running anything.

Scenario files (.yaml, .yml) are parsed strictly: unknown fields,
unknown action kinds, bad prices, and dangling product references are
all reported with the offending field or step. Catalog files (.cue) are
checked against the product schema, with file positions on every error.

All named files are checked; problems are collected rather than
stopping at the first.

Exit codes:
  0 - all files valid
  1 - at least one file invalid
  2 - command error (unreadable file, unrecognized extension)

Examples:
  shopfront validate ./scenarios/checkout.yaml
  shopfront validate ./scenarios/*.yaml ./catalog.cue
  shopfront validate ./catalog.cue --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	var problems []ValidationProblem
	for _, path := range paths {
		formatter.VerboseLog("Checking %s", path)

		if err := checkFile(path); err != nil {
			var exitErr *ExitError
			if errors.As(err, &exitErr) && exitErr.Code == ExitCommandError {
				_ = formatter.Error(CodeValidation, exitErr.Error(), nil)
				return exitErr
			}
			problems = append(problems, ValidationProblem{File: path, Message: err.Error()})
		}
	}

	if len(problems) > 0 {
		return outputValidationProblems(formatter, len(paths), problems)
	}
	return outputValidateSuccess(formatter, len(paths))
}

// checkFile validates one file according to its extension. An unreadable
// file or an extension validate cannot route is a command error; content
// problems are ordinary validation errors.
func checkFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("cannot read %s", path), err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		_, err := scenario.Load(path)
		return err
	case ".cue":
		_, err := fixtures.LoadCatalog(path)
		return err
	default:
		return NewExitError(ExitCommandError,
			fmt.Sprintf("cannot validate %s: scenarios are .yaml, catalogs are .cue", path))
	}
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, checked int) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Checked: checked})
	}

	fmt.Fprintf(formatter.Writer, "✓ %d file(s) valid\n", checked)
	return nil
}

// outputValidationProblems outputs the collected problems.
func outputValidationProblems(formatter *OutputFormatter, checked int, problems []ValidationProblem) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Checked: checked, Problems: problems},
			Error: &CLIError{
				Code:    CodeValidation,
				Message: problems[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d problem(s)", len(problems)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, p := range problems {
		fmt.Fprintf(formatter.Writer, "%s\n", p.File)
		fmt.Fprintf(formatter.Writer, "  %s\n\n", p.Message)
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d problem(s)", len(problems)))
}
