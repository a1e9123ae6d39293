// Command emiprdict manages the local cache of EMI prediction model artifacts.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Rupali110289/emiprdict/internal/adapters/driving/cli"
	"github.com/Rupali110289/emiprdict/internal/core/domain"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// Exit codes for scripting around the CLI.
const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitInvalidInput  = 2
	ExitNotFound      = 3
	ExitFetchFailure  = 4
	ExitIntegrityFail = 5
	ExitLoadFailure   = 6
)

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCodeFromError(err))
	}
}

// exitCodeFromError maps domain errors to process exit codes.
// Integrity failures win over fetch failures, which are usually their cause.
func exitCodeFromError(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, domain.ErrIntegrityFailure):
		return ExitIntegrityFail
	case errors.Is(err, domain.ErrLoadFailure):
		return ExitLoadFailure
	case errors.Is(err, domain.ErrFetchFailure), errors.Is(err, domain.ErrUnsupportedLocator):
		return ExitFetchFailure
	case errors.Is(err, domain.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrDuplicateArtifact):
		return ExitInvalidInput
	default:
		return ExitGeneralError
	}
}
