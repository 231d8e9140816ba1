package markdowncmd

// FeatureGates exposes runtime toggles read from Config.Features so handlers
// stay decoupled from configuration.
type FeatureGates struct {
	PreviewEnabled func() bool
	SyncEnabled    func() bool
}

func (g FeatureGates) previewEnabled() bool {
	if g.PreviewEnabled == nil {
		return true
	}
	return g.PreviewEnabled()
}

func (g FeatureGates) syncEnabled() bool {
	if g.SyncEnabled == nil {
		return true
	}
	return g.SyncEnabled()
}
