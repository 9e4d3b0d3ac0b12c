package vanilla

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// Runtime asset names referenced by the host page. The files are served from
// RenderOptions.RuntimePrefix.
const (
	BridgeScriptName   = "formpreview-bridge.js"
	HostStylesheetName = "formpreview-host.css"
)

const (
	pageTemplate    = "templates/page.tmpl"
	previewTemplate = "templates/preview.tmpl"
)

// TemplatesFS exposes the embedded template bundle so callers can copy or
// extend it.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
