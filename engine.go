package gocert

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Engine holds the collaborators shared by all renders: the font resolver,
// the asset loader, the validation base URL, the clock and the logger. It is
// safe for concurrent use.
type Engine struct {
	resolver *FontResolver
	assets   *AssetLoader
	baseURL  string
	now      func() time.Time
	logger   *zap.Logger
	compress bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Defaults to zap.NewNop.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClock sets the clock used for the generation timestamp.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithBaseURL sets the prefix of default QR validation links.
func WithBaseURL(u string) Option {
	return func(e *Engine) { e.baseURL = strings.TrimRight(u, "/") }
}

// WithFontResolver shares a font resolver between engines.
func WithFontResolver(r *FontResolver) Option {
	return func(e *Engine) { e.resolver = r }
}

// WithAssetLoader sets the logo loader.
func WithAssetLoader(l *AssetLoader) Option {
	return func(e *Engine) { e.assets = l }
}

// WithPDFCompression toggles compression of PDF content streams. Enabled by
// default.
func WithPDFCompression(on bool) Option {
	return func(e *Engine) { e.compress = on }
}

// NewEngine creates an Engine. Collaborators not given as options are
// created with their defaults and share the engine's logger.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		baseURL:  DefaultSettings().BaseURL,
		now:      time.Now,
		logger:   zap.NewNop(),
		compress: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.resolver == nil {
		e.resolver = NewFontResolver(WithResolverLogger(e.logger.Named("fonts")))
	}
	if e.assets == nil {
		e.assets = NewAssetLoader(WithLoaderLogger(e.logger.Named("assets")))
	}
	return e
}

// NewEngineFromSettings wires an Engine from loaded settings.
func NewEngineFromSettings(s Settings, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := &http.Client{Timeout: s.FetchTimeout}

	var env DeploymentEnvironment = ProcessEnvironment{}
	if s.Constrained != nil {
		env = StaticEnvironment(*s.Constrained)
	}
	ropts := []ResolverOption{
		WithEnvironment(env),
		WithFontHTTPClient(client),
		WithFontFetchTimeout(s.FetchTimeout),
		WithSystemFonts(NewFontCache(s.FontDirs...)),
		WithResolverLogger(logger.Named("fonts")),
	}
	if s.FontCacheDir != "" {
		ropts = append(ropts, WithFontCacheDir(s.FontCacheDir))
	}
	if len(s.RemoteFonts) > 0 {
		ropts = append(ropts, WithRemoteFonts(s.RemoteFonts))
	}

	base := []Option{
		WithLogger(logger),
		WithFontResolver(NewFontResolver(ropts...)),
		WithAssetLoader(NewAssetLoader(
			WithHTTPClient(client),
			WithFetchTimeout(s.FetchTimeout),
			WithLoaderLogger(logger.Named("assets")),
		)),
	}
	if s.BaseURL != "" {
		base = append(base, WithBaseURL(s.BaseURL))
	}
	return NewEngine(append(base, opts...)...)
}

// FontResolver returns the engine's font resolver.
func (e *Engine) FontResolver() *FontResolver { return e.resolver }

// Raster returns the PNG renderer.
func (e *Engine) Raster() *RasterRenderer { return &RasterRenderer{engine: e} }

// Vector returns the PDF renderer.
func (e *Engine) Vector() *VectorRenderer { return &VectorRenderer{engine: e} }

// Renderer returns the renderer producing mimeType, or nil if unsupported.
func (e *Engine) Renderer(mimeType string) CertificateRenderer {
	switch mimeType {
	case MIMETypePNG, "png":
		return e.Raster()
	case MIMETypePDF, "pdf":
		return e.Vector()
	default:
		return nil
	}
}
