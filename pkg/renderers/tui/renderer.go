package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-formpreview/pkg/livesync"
	"github.com/goliatone/go-formpreview/pkg/model"
	"github.com/goliatone/go-formpreview/pkg/platform"
	"github.com/goliatone/go-formpreview/pkg/render"
	"github.com/goliatone/go-formpreview/pkg/renderers/vanilla"
	"github.com/goliatone/go-formpreview/pkg/schema"
	"github.com/goliatone/go-formpreview/pkg/surface"
)

// DoneOption ends a live session.
const DoneOption = "Done"

// Renderer draws settings pages in the terminal. Render produces a static
// view; Run drives an interactive live session.
type Renderer struct {
	driver     PromptDriver
	out        io.Writer
	preview    livesync.PreviewRenderer
	size       SizeFunc
	cellWidth  float64
	cellHeight float64
	theme      Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, stdout, the
// vanilla preview markup).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		cellWidth:  DefaultCellWidth,
		cellHeight: DefaultCellHeight,
		theme:      DefaultTheme(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.out == nil {
		r.out = os.Stdout
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	if r.preview == nil {
		markup, err := vanilla.New()
		if err != nil {
			return nil, fmt.Errorf("tui: %w", err)
		}
		r.preview = markup
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render draws the page once with the given values and errors.
func (r *Renderer) Render(ctx context.Context, page model.Page, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	values := page.Defaults()
	for key, value := range opts.Values {
		if page.HasField(key) {
			values[key] = value
		}
	}

	term := r.terminal()
	surf := surface.New(term)
	if err := surf.Mount(); err != nil {
		return nil, err
	}
	defer surf.Unmount()
	if _, err := surf.MarkReady(surf.ID()); err != nil {
		return nil, err
	}
	markup, err := r.preview.RenderPreview(ctx, page, values)
	if err != nil {
		return nil, fmt.Errorf("tui: render preview: %w", err)
	}
	if _, err := surf.Project(markup); err != nil {
		return nil, err
	}

	cols, rows := term.Cells()
	size := livesync.Size{Width: float64(cols) * r.cellWidth, Height: float64(rows) * r.cellHeight}
	snap := livesync.Snapshot{
		Variant:    page.Variant,
		Values:     values,
		Errors:     opts.Errors.Clone(),
		Size:       size,
		Breakpoint: livesync.BreakpointFor(size.Width),
	}
	snap.Overlay = livesync.Overlay(snap.Size, snap.Breakpoint)
	return []byte(r.view(page, snap, term, surf.ID(), render.NormalizeMessages(opts.FormErrors))), nil
}

// Run edits page interactively: every answer goes through the live
// controller and the view is redrawn with the resulting preview. It returns
// the committed values once the user picks Done.
func (r *Renderer) Run(ctx context.Context, page model.Page, validator schema.Validator) (model.Values, error) {
	if r.preview == nil {
		return nil, ErrNoPreviewRenderer
	}

	term := r.terminal()
	surf := surface.New(term)
	if err := surf.Mount(); err != nil {
		return nil, err
	}
	defer surf.Unmount()

	controller, err := livesync.New(livesync.Config{
		Page:      page,
		Platform:  term,
		Validator: validator,
		Surface:   surf,
		Renderer:  r.preview,
	})
	if err != nil {
		return nil, err
	}
	if _, err := surf.MarkReady(surf.ID()); err != nil {
		return nil, err
	}
	if err := controller.Mount(ctx); err != nil {
		return nil, err
	}
	defer controller.Unmount()

	options := make([]string, 0, len(page.Fields)+1)
	for _, field := range page.Fields {
		options = append(options, fieldLabel(field))
	}
	options = append(options, DoneOption)

	for {
		term.Refresh()
		if err := r.draw(page, controller.Snapshot(), term, surf.ID()); err != nil {
			return nil, err
		}

		choice, err := r.driver.Select(ctx, SelectConfig{
			Message:  "Edit field",
			Options:  options,
			PageSize: len(options),
		})
		if err != nil {
			return nil, err
		}
		if choice < 0 || choice >= len(page.Fields) {
			return controller.Values(), nil
		}

		field := page.Fields[choice]
		value, err := r.driver.Input(ctx, InputConfig{
			Message: fieldLabel(field),
			Default: controller.Values().Get(field.Name),
			Help:    field.Placeholder,
		})
		if err != nil {
			return nil, err
		}

		result, err := controller.OnFieldChange(ctx, field.Name, value)
		if err != nil {
			return nil, err
		}
		if !result.Committed {
			_ = r.driver.Info(ctx, fmt.Sprintf("Invalid %s: %s", field.Name, result.Errors.Joined(field.Name)))
		}
	}
}

func (r *Renderer) terminal() *Terminal {
	return NewTerminal(r.size, r.cellWidth, r.cellHeight)
}

func (r *Renderer) draw(page model.Page, snap livesync.Snapshot, term *Terminal, id platform.ContextID) error {
	_, err := fmt.Fprintln(r.out, r.view(page, snap, term, id, nil))
	return err
}

func (r *Renderer) view(page model.Page, snap livesync.Snapshot, term *Terminal, id platform.ContextID, formErrs []string) string {
	cols, rows := term.Cells()
	width := viewWidth(cols)

	title := page.Title
	if title == "" {
		title = "Settings"
	}

	var fields []string
	for _, field := range page.Fields {
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			r.theme.Label.Render(fieldLabel(field)),
			r.theme.Value.Render(snap.Values.Get(field.Name)),
		)
		fields = append(fields, row)
		for _, msg := range snap.Errors[field.Name] {
			fields = append(fields, r.theme.Error.Render("  "+msg))
		}
	}
	for _, msg := range formErrs {
		fields = append(fields, r.theme.Error.Render(msg))
	}

	// border and padding take four columns, the frame two rows
	previewRows := max(rows/2-2, 3)
	preview := r.theme.Preview.
		Width(width - 4).
		Render(strings.Join(term.Visible(id, previewRows), "\n"))

	return lipgloss.JoinVertical(lipgloss.Left,
		r.theme.Title.Render(title),
		strings.Join(fields, "\n"),
		preview,
		r.theme.Overlay.Render(snap.Overlay),
	)
}

func fieldLabel(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}
