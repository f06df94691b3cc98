package system

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/stratabuild/strata/internal/attrs"
	"github.com/stratabuild/strata/internal/hclcfg"
	"github.com/stratabuild/strata/internal/module"
	"github.com/stratabuild/strata/internal/platform"
	"github.com/stratabuild/strata/internal/registry"
)

// probeModule registers the "probe" type: a minimal module whose behavior is
// scripted entirely from its manifest block. A probe appends value (or its
// own name) to the list at path, and refuses the platform named by fail_on.
// Every Contribute call is counted on the shared counter.
type probeModule struct {
	calls atomic.Int64
}

// Register registers the "probe" factory.
func (m *probeModule) Register(r *registry.Registry) {
	type probeConfig struct {
		Path   string `hcl:"path,optional"`
		Value  string `hcl:"value,optional"`
		FailOn string `hcl:"fail_on,optional"`
	}
	r.RegisterFactory(&registry.Factory{
		Type: "probe",
		New: func(spec hclcfg.ModuleSpec) (module.Module, error) {
			var cfg probeConfig
			if err := spec.Decode(&cfg); err != nil {
				return nil, err
			}
			return module.Func{
				ModuleName: spec.Name,
				Deps:       spec.DependsOn,
				Fn: func(_ context.Context, target platform.Platform, _ *attrs.Store) (*attrs.Delta, error) {
					m.calls.Add(1)
					if cfg.FailOn != "" && target.String() == cfg.FailOn {
						return nil, fmt.Errorf("probe refuses platform %s", target)
					}
					if cfg.Path == "" {
						return nil, nil
					}
					value := cfg.Value
					if value == "" {
						value = spec.Name
					}
					return attrs.NewDelta().Set(cfg.Path, attrs.ListVal(attrs.StringVal(value))), nil
				},
			}, nil
		},
	})
}
