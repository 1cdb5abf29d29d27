package dto

// SyncPlan is the set of operations a synchronization would issue.
type SyncPlan struct {
	Platforms PlatformPlan `json:"platforms" yaml:"platforms"`
	Plugins   PluginPlan   `json:"plugins" yaml:"plugins"`
}

// InSync reports whether nothing would change.
func (p SyncPlan) InSync() bool {
	return len(p.Platforms.Add) == 0 && len(p.Platforms.Remove) == 0 &&
		len(p.Plugins.Remove) == 0 && len(p.Plugins.Install) == 0
}

// PlatformPlan lists platform changes.
type PlatformPlan struct {
	Add    []string `json:"add" yaml:"add"`
	Remove []string `json:"remove" yaml:"remove"`
}

// PluginPlan lists plugin changes.
type PluginPlan struct {
	Remove       []string        `json:"remove" yaml:"remove"`
	Install      []PluginInstall `json:"install" yaml:"install"`
	Renamed      []PluginRename  `json:"renamed,omitempty" yaml:"renamed,omitempty"`
	ReinstallAll bool            `json:"reinstall_all" yaml:"reinstall_all"`
}

// PluginInstall is one plugin add with its resolved target.
type PluginInstall struct {
	Name   string `json:"name" yaml:"name"`
	Target string `json:"target" yaml:"target"`
}

// PluginRename is a legacy plugin id replaced by its current name.
type PluginRename struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// InstalledPlugin is one row of the installed plugin listing.
type InstalledPlugin struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	Desired string `json:"desired,omitempty" yaml:"desired,omitempty"`
}
