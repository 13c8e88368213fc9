package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/audix/audix/cmd/cli"
	"github.com/audix/audix/internal/auditor"
)

const (
	exitErrorTemplateConstant = "%v\n"

	exitCodeAuditFailed   = 1
	exitCodeConfiguration = 2
	exitCodeInternal      = 3
)

// main executes the audix command-line application.
func main() {
	executionError := cli.Execute()
	if executionError == nil {
		return
	}

	fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
	switch {
	case errors.Is(executionError, auditor.ErrAuditFailed):
		os.Exit(exitCodeAuditFailed)
	case errors.Is(executionError, auditor.ErrConfiguration):
		os.Exit(exitCodeConfiguration)
	default:
		os.Exit(exitCodeInternal)
	}
}
