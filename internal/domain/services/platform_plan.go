package services

import "github.com/reglet-dev/mobilesync/internal/domain/values"

// PlatformPlan lists the platforms to add and remove, each sorted.
type PlatformPlan struct {
	Add    []string
	Remove []string
}

// Empty reports whether the plan issues no operations.
func (p PlatformPlan) Empty() bool {
	return len(p.Add) == 0 && len(p.Remove) == 0
}

// PlanPlatforms diffs desired against installed. Installed platforms outside
// the known universe are left alone.
func PlanPlatforms(desired, installed, known values.PlatformSet) PlatformPlan {
	var plan PlatformPlan
	for _, name := range desired.Sorted() {
		if !installed.Has(name) {
			plan.Add = append(plan.Add, name)
		}
	}
	for _, name := range installed.Sorted() {
		if !desired.Has(name) && known.Has(name) {
			plan.Remove = append(plan.Remove, name)
		}
	}
	return plan
}
