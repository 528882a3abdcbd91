package cli

import (
	"errors"
	"fmt"
	"io"

	"thumbgen/internal/batch"
)

// Process exit codes.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitCancelled = 130
)

// ExitCode reports err on w and maps it to a process exit code. A cancelled
// batch has already printed "Stopped." and is not reported again.
func ExitCode(err error, w io.Writer) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, batch.ErrCancelled):
		return ExitCancelled
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
		return ExitFailure
	}
}
