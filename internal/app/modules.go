package app

import (
	"github.com/stratabuild/strata/internal/registry"
	"github.com/stratabuild/strata/modules/crate"
	"github.com/stratabuild/strata/modules/formatter"
	"github.com/stratabuild/strata/modules/hooks"
	"github.com/stratabuild/strata/modules/shellenv"
	"github.com/stratabuild/strata/modules/toolchain"
)

// coreModules is the definitive list of all modules that are compiled into
// the strata binary.
var coreModules = []registry.Registrant{
	// --- Module registration section ---
	&toolchain.Module{},
	&crate.Module{},
	&formatter.Module{},
	&shellenv.Module{},
	&hooks.Module{},
	// --- Module registration section ---
}
