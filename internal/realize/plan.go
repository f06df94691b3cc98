package realize

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/stratabuild/strata/internal/attrs"
	"github.com/stratabuild/strata/internal/ctxlog"
)

// Plan renders what realizing a handle would do, without doing it. It is the
// default realizer, and the only one package handles ever get.
type Plan struct {
	Out io.Writer
}

// NewPlan creates a plan realizer writing to out.
func NewPlan(out io.Writer) *Plan {
	return &Plan{Out: out}
}

// Realize implements the Realizer interface.
func (p *Plan) Realize(ctx context.Context, req *Request) error {
	logger := ctxlog.FromContext(ctx)
	h := req.Handle
	logger.Debug("Rendering plan.", "handle", h.Ref.String(), "platform", h.Platform)

	fmt.Fprintf(p.Out, "%s (%s)\n", h.Ref, h.Platform)

	switch h.Ref.Role {
	case attrs.RolePackage:
		if channel, ok := h.Store.GetString(attrs.MustPath("toolchain.channel")); ok {
			line := "  toolchain: " + channel
			if components, ok := h.Store.GetStrings(attrs.MustPath("toolchain.components")); ok && len(components) > 0 {
				line += " (components: " + strings.Join(components, ", ") + ")"
			}
			fmt.Fprintln(p.Out, line)
		}
		fmt.Fprintf(p.Out, "  command:   %s\n", buildCommand(h))

	case attrs.RoleShell:
		if packages, ok := h.Store.GetStrings(attrs.MustPath("shell.packages")); ok {
			fmt.Fprintf(p.Out, "  packages:  %s\n", strings.Join(packages, ", "))
		}
		if sub, ok := h.Store.Sub(attrs.MustPath("shell.env")); ok {
			for _, b := range sub.Flatten() {
				if s, ok := b.Value.AsString(); ok {
					fmt.Fprintf(p.Out, "  env:       %s=%s\n", b.Path, s)
				}
			}
		}
		if hooks, ok := h.Store.GetStrings(attrs.MustPath("shell.hooks")); ok {
			fmt.Fprintf(p.Out, "  hooks:     %d script(s)\n", len(hooks))
		}
		if req.Command != "" {
			fmt.Fprintf(p.Out, "  command:   %s\n", req.Command)
		}

	default:
		command, err := commandFor(h)
		if err != nil {
			return err
		}
		fmt.Fprintf(p.Out, "  command:   %s\n", command)
	}
	return nil
}
