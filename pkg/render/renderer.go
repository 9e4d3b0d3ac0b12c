package render

import (
	"context"

	"github.com/goliatone/go-formpreview/pkg/model"
)

// Renderer turns a page variant into the host document served to browsers
// (or any other byte representation a front end consumes).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, page model.Page, options RenderOptions) ([]byte, error)
}

// PreviewRenderer produces the markup projected into the isolated surface for
// a set of committed values.
type PreviewRenderer interface {
	RenderPreview(ctx context.Context, page model.Page, values model.Values) (string, error)
}
