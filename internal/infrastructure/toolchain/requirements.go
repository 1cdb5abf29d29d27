package toolchain

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/reglet-dev/mobilesync/internal/application/ports"
)

// parseRequirements reads the toolchain's requirements report: an object
// keyed by platform whose values are either a list of requirements or an
// error object with a message.
func parseRequirements(data []byte) (map[string]ports.PlatformRequirements, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("requirements output is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("requirements output must be an object keyed by platform")
	}

	results := make(map[string]ports.PlatformRequirements)
	var parseErr error
	root.ForEach(func(key, value gjson.Result) bool {
		platform := key.String()
		switch {
		case value.IsArray():
			reqs := make([]ports.Requirement, 0, len(value.Array()))
			for _, item := range value.Array() {
				reqs = append(reqs, ports.Requirement{
					ID:        item.Get("id").String(),
					Name:      item.Get("name").String(),
					Installed: item.Get("installed").Bool(),
					Metadata: ports.RequirementMetadata{
						Reason: item.Get("metadata.reason").String(),
					},
				})
			}
			results[platform] = ports.PlatformRequirements{Requirements: reqs}
		case value.IsObject() && value.Get("message").Exists():
			results[platform] = ports.PlatformRequirements{
				Err: &ports.RequirementsError{Platform: platform, Message: value.Get("message").String()},
			}
		default:
			parseErr = fmt.Errorf("unexpected requirements entry for %s: %s", platform, value.Raw)
			return false
		}
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return results, nil
}
