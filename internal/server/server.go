package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	theme "github.com/goliatone/go-theme"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	formpreview "github.com/goliatone/go-formpreview"
	"github.com/goliatone/go-formpreview/internal/config"
	"github.com/goliatone/go-formpreview/internal/logging"
	"github.com/goliatone/go-formpreview/internal/metrics"
	"github.com/goliatone/go-formpreview/pkg/model"
	"github.com/goliatone/go-formpreview/pkg/platform"
	"github.com/goliatone/go-formpreview/pkg/render"
	"github.com/goliatone/go-formpreview/pkg/renderers/vanilla"
	"github.com/goliatone/go-formpreview/pkg/schema"
	"github.com/goliatone/go-formpreview/pkg/surface"
	"github.com/goliatone/go-formpreview/pkg/themes"
)

// LiveEndpoint is the websocket route the bridge script connects to.
const LiveEndpoint = "/ws"

// Option customises a Server.
type Option func(*options)

type options struct {
	validators map[string]schema.Validator
	metrics    *metrics.Metrics
	newID      func() string
}

// WithValidator replaces the schema validator of a page variant.
func WithValidator(variant string, validator schema.Validator) Option {
	return func(o *options) {
		if o.validators == nil {
			o.validators = make(map[string]schema.Validator)
		}
		o.validators[variant] = validator
	}
}

// WithMetrics shares a metrics instance with the caller.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithSessionIDs overrides how session and surface ids are minted.
func WithSessionIDs(fn func() string) Option {
	return func(o *options) {
		o.newID = fn
	}
}

// Server serves the settings pages and their live sessions.
type Server struct {
	cfg      *config.Config
	router   *gin.Engine
	renderer *vanilla.Renderer
	pages    map[string]*pageEntry
	theme    *theme.RendererConfig
	metrics  *metrics.Metrics
	upgrader websocket.Upgrader
	newID    func() string
}

// New loads schemas and themes and wires the routes.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.metrics == nil {
		o.metrics = metrics.New()
	}
	if o.newID == nil {
		o.newID = uuid.NewString
	}

	renderer, err := vanilla.New()
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	catalog, err := themes.NewCatalog(cfg.Theme.Name, cfg.Theme.Variant, themes.DefaultManifest(cfg.Server.RuntimePrefix))
	if err != nil {
		return nil, fmt.Errorf("server: themes: %w", err)
	}
	themeConfig, err := catalog.Resolve("", "")
	if err != nil {
		return nil, fmt.Errorf("server: themes: %w", err)
	}

	pages, err := loadPages(ctx, cfg.Schema, o.validators)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		renderer: renderer,
		pages:    pages,
		theme:    themeConfig,
		metrics:  o.metrics,
		newID:    o.newID,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(cfg.Session.AllowedOrigins),
		},
	}
	s.router = s.routes()
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Variants lists the served page variants.
func (s *Server) Variants() []string {
	out := make([]string, 0, len(s.pages))
	for variant := range s.pages {
		out = append(out, variant)
	}
	sort.Strings(out)
	return out
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("HTTP server listening", zap.String("addr", s.cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	logging.Info("HTTP server shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func (s *Server) lookup(variant string) (*pageEntry, bool) {
	if variant == "" {
		variant = model.VariantBasic
	}
	entry, ok := s.pages[variant]
	return entry, ok
}

// hostOptions builds the render options shared by page loads, form posts and
// live sessions so they all see the same host document.
func (s *Server) hostOptions(ctx context.Context, page model.Page, shown, committed model.Values, errs model.Errors, formErrs []string) (render.RenderOptions, error) {
	document, err := s.previewDocument(ctx, page, committed)
	if err != nil {
		return render.RenderOptions{}, err
	}
	return render.RenderOptions{
		Values:          shown,
		Errors:          errs,
		FormErrors:      formErrs,
		Action:          "/p/" + page.Variant,
		Hidden:          render.MergeHiddenFields(nil, render.Hidden("variant", page.Variant)),
		Theme:           s.theme,
		LiveEndpoint:    LiveEndpoint,
		RuntimePrefix:   s.cfg.Server.RuntimePrefix,
		SurfaceDocument: document,
	}, nil
}

func (s *Server) renderHost(ctx context.Context, page model.Page, shown, committed model.Values, errs model.Errors, formErrs []string) ([]byte, error) {
	opts, err := s.hostOptions(ctx, page, shown, committed, errs, formErrs)
	if err != nil {
		return nil, err
	}
	return s.renderer.Render(ctx, page, opts)
}

// previewDocument renders committed values through a one-shot surface so the
// frame's initial document is sanitized and styled exactly like live
// projections.
func (s *Server) previewDocument(ctx context.Context, page model.Page, values model.Values) (string, error) {
	markup, err := s.renderer.RenderPreview(ctx, page, values)
	if err != nil {
		return "", err
	}

	host := &documentHost{}
	surf := surface.New(host, surface.WithIDGenerator(func() string { return "static" }))
	if err := surf.Mount(); err != nil {
		return "", err
	}
	defer surf.Unmount()
	if _, err := surf.MarkReady(surf.ID()); err != nil {
		return "", err
	}
	if href := themes.Stylesheet(s.theme); href != "" {
		surf.SetStylesheet(platform.Stylesheet{Href: href})
	}
	if _, err := surf.Project(markup); err != nil {
		return "", err
	}
	return host.document, nil
}

// documentHost captures the single document a static surface produces.
type documentHost struct {
	document string
}

func (h *documentHost) Attach(platform.ContextID) error { return nil }

func (h *documentHost) Replace(_ platform.ContextID, document string) error {
	h.document = document
	return nil
}

func (h *documentHost) Detach(platform.ContextID) {}

// originChecker accepts the listed origins. With none listed the gorilla
// default applies: the Origin host must match the request host.
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		set[strings.TrimRight(strings.ToLower(origin), "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		_, ok := set[strings.ToLower(u.Scheme+"://"+u.Host)]
		return ok
	}
}

func runtimeAssets() http.FileSystem {
	return http.FS(formpreview.RuntimeAssetsFS())
}
