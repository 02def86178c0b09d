// Package oracle runs the external subprocess collaborator an ORACLE
// constant delegates to, and parses its response back into an expression.
// Both concerns were a blocking popen/pclose pair in the original; here
// they are small interfaces so a caller can swap in a fake for testing
// without shelling out, per spec.md §4's "external oracle invocation"
// boundary.
package oracle

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/alfc/alfc/expr"
)

// Runner executes an oracle command line and returns its standard output.
// A non-nil error means the process could not be run at all (not found,
// context cancelled); a clean non-zero exit is reported the same way, since
// both cases mean the call contributes no reduction.
type Runner interface {
	Run(ctx context.Context, command string) (string, error)
}

// ResponseParser turns an oracle's raw stdout back into an expression,
// re-entering whatever collaborator parsed the input proof in the first
// place. alfc does not ship a parser (spec.md §1's non-goal); ExecRunner
// callers that never declare an ORACLE constant can leave this nil.
type ResponseParser interface {
	ParseExpr(store *expr.Store, text string) (*expr.Node, error)
}

// ExecRunner runs commands with os/exec, handing the complete command line
// (already joined from the command template and the stringified arguments by
// the evaluator) to the shell.
type ExecRunner struct {
	// Shell is the interpreter command line is passed to, defaulting to
	// {"/bin/sh", "-c"} when empty.
	Shell []string
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, command string) (string, error) {
	shell := r.Shell
	if len(shell) == 0 {
		shell = []string{"/bin/sh", "-c"}
	}
	cmd := exec.CommandContext(ctx, shell[0], append(append([]string(nil), shell[1:]...), command)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", errors.Wrapf(err, "oracle command %q failed: %s", command, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
