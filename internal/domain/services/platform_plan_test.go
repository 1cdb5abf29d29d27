package services

import (
	"testing"

	"github.com/reglet-dev/mobilesync/internal/domain/values"
	"github.com/stretchr/testify/assert"
)

func Test_PlanPlatforms_AddAndRemove(t *testing.T) {
	desired := values.MustNewPlatformSet("ios", "android")
	installed := values.MustNewPlatformSet("android", "web")
	known := values.MustNewPlatformSet("ios", "android", "web")

	plan := PlanPlatforms(desired, installed, known)
	assert.Equal(t, []string{"ios"}, plan.Add)
	assert.Equal(t, []string{"web"}, plan.Remove)
}

func Test_PlanPlatforms_UnknownInstalledKept(t *testing.T) {
	desired := values.MustNewPlatformSet("ios")
	installed := values.MustNewPlatformSet("ios", "windows")
	known := values.MustNewPlatformSet(values.DefaultKnownPlatforms...)

	plan := PlanPlatforms(desired, installed, known)
	assert.True(t, plan.Empty())
}

func Test_PlanPlatforms_InSync(t *testing.T) {
	set := values.MustNewPlatformSet("ios", "android")

	plan := PlanPlatforms(set, set, values.MustNewPlatformSet(values.DefaultKnownPlatforms...))
	assert.Empty(t, plan.Add)
	assert.Empty(t, plan.Remove)
}

func Test_PlanPlatforms_SortedOutput(t *testing.T) {
	desired := values.MustNewPlatformSet("ios", "browser", "android")

	plan := PlanPlatforms(desired, values.PlatformSet{}, values.MustNewPlatformSet(values.DefaultKnownPlatforms...))
	assert.Equal(t, []string{"android", "browser", "ios"}, plan.Add)
}
