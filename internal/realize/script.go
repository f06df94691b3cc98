package realize

import (
	"context"
	"fmt"
	"io"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/stratabuild/strata/internal/attrs"
	"github.com/stratabuild/strata/internal/ctxlog"
	"github.com/stratabuild/strata/internal/output"
)

// Script executes handles through an embedded POSIX shell interpreter, with
// the composition's environment overlaid. Package handles are refused:
// building artifacts stays with cargo, strata only plans it.
type Script struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewScript creates a script realizer bound to the given stdio.
func NewScript(stdin io.Reader, stdout, stderr io.Writer) *Script {
	return &Script{Stdin: stdin, Stdout: stdout, Stderr: stderr}
}

// Realize implements the Realizer interface.
func (s *Script) Realize(ctx context.Context, req *Request) error {
	logger := ctxlog.FromContext(ctx)
	h := req.Handle

	src, err := s.scriptFor(h, req.Command)
	if err != nil {
		return err
	}
	logger.Debug("Executing handle.", "handle", h.Ref.String(), "platform", h.Platform)

	return s.run(ctx, req.Dir, Environ(h.Store), src)
}

// scriptFor assembles the shell source a handle stands for.
func (s *Script) scriptFor(h *output.Handle, extra string) (string, error) {
	switch h.Ref.Role {
	case attrs.RolePackage:
		return "", fmt.Errorf("%s is plan-only: run %q yourself", h.Ref, buildCommand(h))
	case attrs.RoleShell:
		var lines []string
		if hooks, ok := h.Store.GetStrings(attrs.MustPath("shell.hooks")); ok {
			lines = append(lines, hooks...)
		}
		if extra != "" {
			lines = append(lines, extra)
		}
		if len(lines) == 0 {
			return "", fmt.Errorf("%s has no hooks and no command was given", h.Ref)
		}
		return strings.Join(lines, "\n"), nil
	default:
		return commandFor(h)
	}
}

func (s *Script) run(ctx context.Context, dir string, env []string, src string) error {
	prog, err := syntax.NewParser().Parse(strings.NewReader(src), "strata")
	if err != nil {
		return fmt.Errorf("parsing script: %w", err)
	}

	runner, err := interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(s.Stdin, s.Stdout, s.Stderr),
	)
	if err != nil {
		return fmt.Errorf("creating interpreter: %w", err)
	}
	return runner.Run(ctx, prog)
}
