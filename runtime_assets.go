package formpreview

import (
	"embed"
	"io/fs"
)

//go:embed pkg/runtime/assets/*.js pkg/runtime/assets/*.css pkg/runtime/assets/themes/*/*.css
var embeddedRuntimeAssets embed.FS

// RuntimeAssetsFS exposes the browser bridge script, the host layout
// stylesheet and the theme stylesheets so Go applications can serve them
// without a frontend build step.
//
// Typical mount:
//
//	router.StaticFS("/runtime", http.FS(formpreview.RuntimeAssetsFS()))
func RuntimeAssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedRuntimeAssets, "pkg/runtime/assets")
	if err != nil {
		return embeddedRuntimeAssets
	}
	return sub
}
