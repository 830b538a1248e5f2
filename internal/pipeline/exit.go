package pipeline

import (
	"errors"

	"github.com/couchcryptid/heathrow-climate/internal/domain"
)

// Process exit codes.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitFileNotFound = 2
	ExitParse        = 3
	ExitRender       = 4
)

// ExitCode maps a pipeline error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, domain.ErrFileNotFound):
		return ExitFileNotFound
	case domain.IsParseError(err):
		return ExitParse
	case errors.Is(err, domain.ErrRender):
		return ExitRender
	default:
		return ExitFailure
	}
}
