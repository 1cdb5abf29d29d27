package services

import "github.com/reglet-dev/mobilesync/internal/domain/entities"

// legacyPluginIDs maps reverse-domain core plugin ids to their registry names.
var legacyPluginIDs = map[string]string{
	"org.apache.cordova.battery-status":      "cordova-plugin-battery-status",
	"org.apache.cordova.camera":              "cordova-plugin-camera",
	"org.apache.cordova.console":             "cordova-plugin-console",
	"org.apache.cordova.contacts":            "cordova-plugin-contacts",
	"org.apache.cordova.device":              "cordova-plugin-device",
	"org.apache.cordova.device-motion":       "cordova-plugin-device-motion",
	"org.apache.cordova.device-orientation":  "cordova-plugin-device-orientation",
	"org.apache.cordova.dialogs":             "cordova-plugin-dialogs",
	"org.apache.cordova.file":                "cordova-plugin-file",
	"org.apache.cordova.file-transfer":       "cordova-plugin-file-transfer",
	"org.apache.cordova.geolocation":         "cordova-plugin-geolocation",
	"org.apache.cordova.globalization":       "cordova-plugin-globalization",
	"org.apache.cordova.inappbrowser":        "cordova-plugin-inappbrowser",
	"org.apache.cordova.media":               "cordova-plugin-media",
	"org.apache.cordova.media-capture":       "cordova-plugin-media-capture",
	"org.apache.cordova.network-information": "cordova-plugin-network-information",
	"org.apache.cordova.splashscreen":        "cordova-plugin-splashscreen",
	"org.apache.cordova.statusbar":           "cordova-plugin-statusbar",
	"org.apache.cordova.test-framework":      "cordova-plugin-test-framework",
	"org.apache.cordova.vibration":           "cordova-plugin-vibration",
}

// PluginRename records one legacy id replaced by its current name.
type PluginRename struct {
	From string
	To   string
}

// MigratedPluginID returns the current name for a legacy id.
func MigratedPluginID(name string) (string, bool) {
	to, ok := legacyPluginIDs[name]
	return to, ok
}

// MigrateDesiredPlugins renames legacy ids. When both the legacy and the
// current name are declared, the current declaration wins.
func MigrateDesiredPlugins(set entities.PluginSet) (entities.PluginSet, []PluginRename, error) {
	var renames []PluginRename
	out := make([]entities.PluginDeclaration, 0, set.Len())
	for _, d := range set.Sorted() {
		if to, ok := MigratedPluginID(d.Name); ok {
			renames = append(renames, PluginRename{From: d.Name, To: to})
			if set.Has(to) {
				continue
			}
			d.Name = to
		}
		out = append(out, d)
	}

	migrated, err := entities.NewPluginSet(out...)
	if err != nil {
		return entities.PluginSet{}, nil, err
	}
	return migrated, renames, nil
}
