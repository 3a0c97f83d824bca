package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/tracklist/internal/seed"
)

// ValidationResult holds dataset validation results.
type ValidationResult struct {
	Dataset string `json:"dataset"`
	Valid   bool   `json:"valid"`
	Albums  int    `json:"albums"`
	Nulls   int    `json:"nulls"`
}

// bundledDataset names the embedded dataset in output.
const bundledDataset = "(bundled)"

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [dataset.json]",
		Short: "Validate an album seed dataset",
		Long: `Check an album dataset against the seed schema without touching any store.

With no argument the dataset bundled into the binary is checked. Null
entries are allowed; they are skipped when seeding.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runValidate(rootOpts, path, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	name := path
	raw := seed.BundledRaw()
	if path == "" {
		name = bundledDataset
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			if outErr := formatter.Error(ErrCodeCommand, fmt.Sprintf("cannot read dataset: %v", err), nil); outErr != nil {
				return outErr
			}
			return WrapExitError(ExitCommandError, "cannot read dataset", err)
		}
		raw = data
	}
	formatter.VerboseLog("Validating %s (%d bytes)", name, len(raw))

	// LoadAlbums runs the schema check before decoding.
	albums, err := seed.LoadAlbums(bytes.NewReader(raw))
	if err != nil {
		if outErr := formatter.Error(ErrCodeInvalidDataset, err.Error(), map[string]string{"dataset": name}); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitFailure, "dataset invalid", err)
	}

	result := ValidationResult{Dataset: name, Valid: true}
	for _, a := range albums {
		if a == nil {
			result.Nulls++
			continue
		}
		result.Albums++
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid: %d album(s), %d null entries\n", name, result.Albums, result.Nulls)
	return nil
}
