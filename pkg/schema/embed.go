package schema

import (
	"embed"
	"io/fs"
)

//go:embed settings/*.json
var embeddedSettings embed.FS

// SettingsFS exposes the built-in settings schemas, one per page variant
// (basic.json, status.json).
func SettingsFS() fs.FS {
	sub, err := fs.Sub(embeddedSettings, "settings")
	if err != nil {
		return embeddedSettings
	}
	return sub
}
