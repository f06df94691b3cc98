// Package realize maps resolved output handles onto actions. A composition
// only ever describes an environment; realizers are the seam where the
// description turns into rendered plans or executed commands.
package realize

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/stratabuild/strata/internal/attrs"
	"github.com/stratabuild/strata/internal/output"
)

// Request carries one resolved handle plus the invocation-scoped inputs a
// realizer needs.
type Request struct {
	Handle *output.Handle
	// Dir is the working directory commands run in, normally the manifest's
	// directory.
	Dir string
	// Command is an optional one-shot command for shell handles, run after
	// the hooks.
	Command string
}

// Realizer turns one resolved handle into an effect.
type Realizer interface {
	Realize(ctx context.Context, req *Request) error
}

// Environ returns the process environment overlaid with the composition's
// shell variables, in their contribution order.
func Environ(st *attrs.Store) []string {
	env := os.Environ()
	sub, ok := st.Sub(attrs.MustPath("shell.env"))
	if !ok {
		return env
	}
	for _, b := range sub.Flatten() {
		if s, ok := b.Value.AsString(); ok {
			env = append(env, b.Path.String()+"="+s)
		}
	}
	return env
}

// commandFor looks up the command a non-package handle stands for.
func commandFor(h *output.Handle) (string, error) {
	switch h.Ref.Role {
	case attrs.RoleFormatter:
		command, ok := h.Store.GetString(attrs.MustPath("fmt.command"))
		if !ok {
			return "", fmt.Errorf("formatter %q has no fmt.command", h.Ref.Name)
		}
		return command, nil
	case attrs.RoleCheck:
		path := attrs.Path{"checks", h.Ref.Name, "command"}
		command, ok := h.Store.GetString(path)
		if !ok {
			return "", fmt.Errorf("check %q has no command at %q", h.Ref.Name, path)
		}
		return command, nil
	}
	return "", fmt.Errorf("no single command for a %s handle", h.Ref.Role)
}

// buildCommand renders the cargo invocation a package handle plans.
func buildCommand(h *output.Handle) string {
	var sb strings.Builder
	sb.WriteString("cargo build --release")
	if target, ok := h.Store.GetString(attrs.MustPath("crate.target")); ok {
		sb.WriteString(" --target ")
		sb.WriteString(target)
	}
	if features, ok := h.Store.GetStrings(attrs.MustPath("crate.features")); ok && len(features) > 0 {
		sb.WriteString(" --features ")
		sb.WriteString(strings.Join(features, ","))
	}
	return sb.String()
}
