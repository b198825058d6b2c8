package gocert

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FontSource tells where the resolved font program came from.
type FontSource string

// Font sources.
const (
	FontSourceEmbedded FontSource = "embedded"
	FontSourceRemote   FontSource = "remote"
	FontSourceSystem   FontSource = "system"
)

// Family names reported for embedded and system-fallback resolutions.
const (
	EmbeddedFamily       = "Go"
	SystemFallbackFamily = "sans-serif"
)

// selfTestText exercises cedilla, tilde and acute accents.
const selfTestText = "Certificação Açaí Über"

// FontResolution is the outcome of font resolution. It is computed once per
// FontResolver and never modified afterwards.
type FontResolution struct {
	Family        string
	Source        FontSource
	ExtendedChars bool
	Constrained   bool
	// ASCIIOnly activates the ASCII-only sanitization policy.
	ASCIIOnly bool

	// Font programs; nil for the system fallback.
	Regular, Bold         []byte
	RegularFont, BoldFont *opentype.Font
}

// HasProgram reports whether a TrueType program can be embedded.
func (r *FontResolution) HasProgram() bool {
	return r != nil && len(r.Regular) > 0 && r.RegularFont != nil
}

// Sanitizer returns the sanitization policy matching the resolution.
func (r *FontResolution) Sanitizer() Sanitizer {
	return Sanitizer{ASCIIOnly: r == nil || r.ASCIIOnly}
}

// EmbeddedFontsFunc returns the regular and bold programs bundled with the
// binary.
type EmbeddedFontsFunc func() (regular, bold []byte, err error)

// GoFonts returns the Go font family bundled by golang.org/x/image.
func GoFonts() (regular, bold []byte, err error) {
	return goregular.TTF, gobold.TTF, nil
}

// FontResolver decides once which font family is usable and whether extended
// characters render. It never fails; the chain ends in the system fallback.
type FontResolver struct {
	env      DeploymentEnvironment
	goos     string
	embedded EmbeddedFontsFunc
	remote   []RemoteFont
	cacheDir string
	client   *http.Client
	timeout  time.Duration
	fonts    *FontCache
	logger   *zap.Logger

	once sync.Once
	res  *FontResolution
}

// ResolverOption configures a FontResolver.
type ResolverOption func(*FontResolver)

// WithEnvironment sets the deployment environment. Defaults to
// ProcessEnvironment.
func WithEnvironment(env DeploymentEnvironment) ResolverOption {
	return func(r *FontResolver) { r.env = env }
}

// WithGOOS overrides runtime.GOOS for the remote-download decision.
func WithGOOS(goos string) ResolverOption {
	return func(r *FontResolver) { r.goos = goos }
}

// WithEmbeddedFonts replaces the bundled font programs.
func WithEmbeddedFonts(fn EmbeddedFontsFunc) ResolverOption {
	return func(r *FontResolver) { r.embedded = fn }
}

// WithRemoteFonts sets the ordered remote font sources.
func WithRemoteFonts(sources []RemoteFont) ResolverOption {
	return func(r *FontResolver) { r.remote = sources }
}

// WithFontCacheDir sets the download directory for remote fonts.
func WithFontCacheDir(dir string) ResolverOption {
	return func(r *FontResolver) { r.cacheDir = dir }
}

// WithFontHTTPClient sets the client used for font downloads.
func WithFontHTTPClient(c *http.Client) ResolverOption {
	return func(r *FontResolver) { r.client = c }
}

// WithFontFetchTimeout bounds each remote font download. Defaults to
// DefaultFetchTimeout.
func WithFontFetchTimeout(d time.Duration) ResolverOption {
	return func(r *FontResolver) { r.timeout = d }
}

// WithSystemFonts shares a FontCache for the system fallback.
func WithSystemFonts(fc *FontCache) ResolverOption {
	return func(r *FontResolver) { r.fonts = fc }
}

// WithResolverLogger sets the logger.
func WithResolverLogger(l *zap.Logger) ResolverOption {
	return func(r *FontResolver) { r.logger = l }
}

// NewFontResolver creates an unresolved FontResolver.
func NewFontResolver(opts ...ResolverOption) *FontResolver {
	r := &FontResolver{
		env:      ProcessEnvironment{},
		goos:     runtime.GOOS,
		embedded: GoFonts,
		remote:   DefaultRemoteFonts,
		cacheDir: DefaultSettings().FontCacheDir,
		timeout:  DefaultFetchTimeout,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.fonts == nil {
		r.fonts = NewFontCache()
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.timeout <= 0 {
		r.timeout = DefaultFetchTimeout
	}
	return r
}

// SystemFonts returns the cache used for system font lookups.
func (r *FontResolver) SystemFonts() *FontCache {
	return r.fonts
}

// Resolve returns the resolution, computing it on the first call. Concurrent
// first calls block until the single computation finishes. The result is
// shared by every caller, so cancellation of the first caller's ctx does not
// reach the downloads; each one is bounded by the fetch timeout instead.
func (r *FontResolver) Resolve(ctx context.Context) *FontResolution {
	r.once.Do(func() {
		r.res = r.resolve(context.WithoutCancel(ctx))
		r.logger.Info("font resolved",
			zap.String("family", r.res.Family),
			zap.String("source", string(r.res.Source)),
			zap.Bool("extendedChars", r.res.ExtendedChars),
			zap.Bool("constrained", r.res.Constrained))
	})
	return r.res
}

func (r *FontResolver) resolve(ctx context.Context) *FontResolution {
	constrained := r.env != nil && r.env.IsConstrained()

	var res *FontResolution
	switch {
	case constrained:
		r.logger.Info("constrained environment, skipping font registration")
		res = systemFallback()
	default:
		res = r.registerEmbedded()
		if res == nil && !isWindowsLike(r.goos) {
			res = r.registerRemote(ctx)
		}
		if res == nil {
			r.logger.Warn("no font program registered, using system fallback")
			res = systemFallback()
		}
	}

	res.Constrained = constrained
	res.ExtendedChars = r.selfTest(res)
	if constrained {
		res.ExtendedChars = false
	}
	res.ASCIIOnly = constrained || !res.ExtendedChars
	return res
}

func systemFallback() *FontResolution {
	return &FontResolution{Family: SystemFallbackFamily, Source: FontSourceSystem}
}

func (r *FontResolver) registerEmbedded() *FontResolution {
	if r.embedded == nil {
		return nil
	}
	regular, bold, err := r.embedded()
	if err != nil {
		r.logger.Warn("embedded fonts unavailable", zap.Error(err))
		return nil
	}
	res, err := newProgramResolution(EmbeddedFamily, FontSourceEmbedded, regular, bold)
	if err != nil {
		r.logger.Warn("embedded fonts unusable", zap.Error(err))
		return nil
	}
	return res
}

func (r *FontResolver) registerRemote(ctx context.Context) *FontResolution {
	if len(r.remote) == 0 {
		return nil
	}
	dl := newFontDownloader(r.client, r.cacheDir, r.logger)
	fetch := func(url string) ([]byte, error) {
		ctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		return dl.Fetch(ctx, url)
	}
	for _, src := range r.remote {
		regular, err := fetch(src.Regular)
		if err != nil {
			r.logger.Warn("remote font unavailable", zap.String("family", src.Family), zap.Error(err))
			continue
		}
		var bold []byte
		if src.Bold != "" {
			if bold, err = fetch(src.Bold); err != nil {
				r.logger.Debug("remote bold font unavailable", zap.String("family", src.Family), zap.Error(err))
			}
		}
		res, err := newProgramResolution(src.Family, FontSourceRemote, regular, bold)
		if err != nil {
			r.logger.Warn("remote font unusable", zap.String("family", src.Family), zap.Error(err))
			continue
		}
		return res
	}
	return nil
}

// newProgramResolution parses the font programs. A missing or broken bold
// program falls back to the regular one.
func newProgramResolution(family string, src FontSource, regular, bold []byte) (*FontResolution, error) {
	if len(regular) == 0 {
		return nil, fmt.Errorf("%s: empty regular font program", family)
	}
	rf, err := opentype.Parse(regular)
	if err != nil {
		return nil, fmt.Errorf("%s: parse regular font: %w", family, err)
	}
	res := &FontResolution{
		Family:      family,
		Source:      src,
		Regular:     regular,
		RegularFont: rf,
		Bold:        regular,
		BoldFont:    rf,
	}
	if len(bold) > 0 {
		if bf, err := opentype.Parse(bold); err == nil {
			res.Bold, res.BoldFont = bold, bf
		}
	}
	return res, nil
}

// selfTest draws selfTestText offscreen and reports whether it produced a
// positive advance without panicking.
func (r *FontResolver) selfTest(res *FontResolution) (ok bool) {
	face := r.selfTestFace(res)
	if face == nil {
		return false
	}
	defer face.Close()
	defer func() {
		if p := recover(); p != nil {
			r.logger.Warn("font self-test panicked", zap.Any("panic", p))
			ok = false
		}
	}()

	dst := image.NewRGBA(image.Rect(0, 0, 400, 60))
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(4, 40),
	}
	d.DrawString(selfTestText)
	return (d.Dot.X - fixed.I(4)) > 0
}

func (r *FontResolver) selfTestFace(res *FontResolution) font.Face {
	f := res.RegularFont
	if f == nil && r.fonts != nil {
		f = r.fonts.Lookup(res.Family, false)
	}
	if f == nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 24, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		r.logger.Warn("font self-test face", zap.Error(err))
		return nil
	}
	return face
}
