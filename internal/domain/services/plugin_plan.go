// Package services contains pure domain services: planners that decide
// which toolchain operations bring the build project to the desired state.
package services

import (
	"fmt"

	"github.com/reglet-dev/mobilesync/internal/domain/entities"
)

// PluginResolver normalizes and resolves version specifiers.
// SpecifierResolver is the production implementation.
type PluginResolver interface {
	Resolve(name, raw string) (string, error)
	Normalize(raw string) (string, error)
}

// SpecifierError attributes a version specifier failure to a plugin.
type SpecifierError struct {
	Err    error
	Plugin string
}

func (e *SpecifierError) Error() string {
	return fmt.Sprintf("plugin %s: %v", e.Plugin, e.Err)
}

func (e *SpecifierError) Unwrap() error {
	return e.Err
}

// PluginInstall is a plugin to add together with its resolved target.
type PluginInstall struct {
	Declaration entities.PluginDeclaration
	Target      string
}

// PluginPlan is the reconciliation decision for one call. It is derived and
// never persisted.
type PluginPlan struct {
	Remove       []string
	Install      []PluginInstall
	ReinstallAll bool
}

// Empty reports whether the plan issues no operations.
func (p PluginPlan) Empty() bool {
	return len(p.Remove) == 0 && len(p.Install) == 0
}

// PlanPlugins diffs desired against installed.
//
// Changing one registry or git plugin can break a dependency pinned by
// another, so any such difference reinstalls everything. Local path plugins
// bypass the dependency resolver and are always swapped on their own.
//
// Every install target is resolved before the plan is returned, so a bad
// specifier fails here and never after removals have started.
func PlanPlugins(desired entities.PluginSet, installed entities.InstalledPlugins, resolver PluginResolver) (PluginPlan, error) {
	local, remaining := desired.Partition()

	reinstallAll := false
	for _, d := range remaining.Sorted() {
		want, err := resolver.Normalize(d.Version)
		if err != nil {
			return PluginPlan{}, &SpecifierError{Plugin: d.Name, Err: err}
		}
		have, ok := installed.Version(d.Name)
		if !ok || have != want {
			reinstallAll = true
		}
	}

	for _, name := range installed.Names() {
		if !desired.Has(name) {
			reinstallAll = true
		}
	}

	var pluginsToInstall []entities.PluginDeclaration
	plan := PluginPlan{ReinstallAll: reinstallAll}
	switch {
	case reinstallAll:
		plan.Remove = installed.Names()
		pluginsToInstall = desired.Sorted()
	case local.Len() > 0:
		for _, name := range local.Names() {
			if installed.Has(name) {
				plan.Remove = append(plan.Remove, name)
			}
		}
		pluginsToInstall = local.Sorted()
	default:
		return plan, nil
	}

	plan.Install = make([]PluginInstall, 0, len(pluginsToInstall))
	for _, d := range pluginsToInstall {
		target, err := resolver.Resolve(d.Name, d.Version)
		if err != nil {
			return PluginPlan{}, &SpecifierError{Plugin: d.Name, Err: err}
		}
		plan.Install = append(plan.Install, PluginInstall{Declaration: d, Target: target})
	}
	return plan, nil
}
