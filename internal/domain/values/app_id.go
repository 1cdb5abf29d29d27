package values

import "regexp"

// AppIDNamespace prefixes every generated application identifier.
const AppIDNamespace = "com.mobilesync.userapps"

var appIDIllegal = regexp.MustCompile(`[^A-Za-z0-9_$.]`)

// AppIDFromName derives a toolchain-legal identifier from an application
// display name. Identifiers must look like Java namespaces, so anything
// outside [A-Za-z0-9_$.] becomes an underscore.
func AppIDFromName(name string) string {
	return AppIDNamespace + "." + appIDIllegal.ReplaceAllString(name, "_")
}
