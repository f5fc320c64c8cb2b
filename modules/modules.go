// Package modules assembles the built-in training modules.
package modules

import (
	"fmt"
	"strings"

	"github.com/m3rciful/salestrainer/core/training"
	"github.com/m3rciful/salestrainer/modules/objections"
	"github.com/m3rciful/salestrainer/modules/sleepingdragon"
	"github.com/m3rciful/salestrainer/modules/upsell"
)

// Definitions returns every built-in module in menu order.
func Definitions() []training.Definition {
	return []training.Definition{
		objections.Definition(),
		upsell.Definition(),
		sleepingdragon.Definition(),
	}
}

// Load validates the built-in modules and keeps those named in enabled.
// An empty enabled list keeps all of them; unknown names are an error.
func Load(enabled []string) ([]*training.Module, error) {
	defs := Definitions()
	want := make(map[string]bool, len(enabled))
	for _, name := range enabled {
		want[strings.TrimSpace(name)] = true
	}
	known := make(map[string]bool, len(defs))
	for _, def := range defs {
		known[def.Name] = true
	}
	for name := range want {
		if !known[name] {
			return nil, fmt.Errorf("modules: unknown module %q", name)
		}
	}

	prefixes := make(map[string]string, len(defs))
	out := make([]*training.Module, 0, len(defs))
	for _, def := range defs {
		if len(want) > 0 && !want[def.Name] {
			continue
		}
		mod, err := training.NewModule(def)
		if err != nil {
			return nil, err
		}
		if other, ok := prefixes[mod.CallbackPrefix()]; ok {
			return nil, fmt.Errorf("modules: %s and %s share callback prefix %q", other, mod.Name(), mod.CallbackPrefix())
		}
		prefixes[mod.CallbackPrefix()] = mod.Name()
		out = append(out, mod)
	}
	return out, nil
}
