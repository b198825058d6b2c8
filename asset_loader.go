package gocert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "golang.org/x/image/webp"
)

// Placeholder labels drawn in place of unavailable assets.
const (
	PlaceholderLogoLabel = "LOGO"
	PlaceholderQRLabel   = "QR CODE"
)

// Asset is a bitmap ready to draw, or a placeholder when Image is nil.
type Asset struct {
	Image image.Image
	// Width and Height are the natural pixel dimensions of Image.
	Width, Height int
	// Label is drawn inside the placeholder box.
	Label string
	// Source is the URL the bitmap was fetched from, if remote.
	Source string
}

// IsPlaceholder reports whether the asset must be drawn as a placeholder box.
func (a Asset) IsPlaceholder() bool {
	return a.Image == nil
}

// Placeholder returns a placeholder asset with the given label.
func Placeholder(label string) Asset {
	return Asset{Label: label}
}

func imageAsset(img image.Image, source string) Asset {
	b := img.Bounds()
	return Asset{Image: img, Width: b.Dx(), Height: b.Dy(), Source: source}
}

// FitWithin scales (w, h) so that the longer side equals max while keeping
// the aspect ratio. Degenerate sizes fit into a max×max square.
func FitWithin(w, h, max float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return max, max
	}
	if w >= h {
		return max, max * h / w
	}
	return max * w / h, max
}

// Logo fetch limits.
const (
	maxLogoBytes      = 10 << 20
	logoCacheTTL      = 30 * time.Minute
	logoCacheEntries  = 128
	logoFitBoxPixels  = 400
	logoAcceptHeader  = "image/avif,image/webp,image/png,image/jpeg,image/*;q=0.8"
	cloudinaryUpload  = "/upload/"
	cloudinaryAuto    = "f_auto,q_auto"
	cloudinaryFitSpec = "c_fit,w_400,h_400"
)

var userAgent = "GoCert/" + Version + " (+certificate renderer)"

// LogoCandidates returns the ordered URL variants tried for a logo: the
// original, an automatic format/quality variant and a variant fit within
// 400×400. Cloudinary delivery URLs get path transforms, other URLs query
// parameters.
func LogoCandidates(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	candidates := []string{raw}
	if i := strings.Index(raw, cloudinaryUpload); i >= 0 {
		head, tail := raw[:i+len(cloudinaryUpload)], raw[i+len(cloudinaryUpload):]
		candidates = append(candidates,
			head+cloudinaryAuto+"/"+tail,
			head+cloudinaryFitSpec+"/"+tail,
		)
	} else if u, err := url.Parse(raw); err == nil && u.Host != "" {
		candidates = append(candidates,
			withQuery(u, map[string]string{"auto": "format", "q": "80"}),
			withQuery(u, map[string]string{"fit": "max", "w": fmt.Sprint(logoFitBoxPixels), "h": fmt.Sprint(logoFitBoxPixels)}),
		)
	}

	out := candidates[:0]
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

func withQuery(u *url.URL, params map[string]string) string {
	v := *u
	q := v.Query()
	for k, val := range params {
		q.Set(k, val)
	}
	v.RawQuery = q.Encode()
	return v.String()
}

// AssetLoader fetches remote logos. Decoded logos are cached by URL.
type AssetLoader struct {
	client  *http.Client
	timeout time.Duration
	cache   Cache[string, image.Image]
	logger  *zap.Logger
}

// LoaderOption configures an AssetLoader.
type LoaderOption func(*AssetLoader)

// WithHTTPClient sets the client used for logo fetches.
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *AssetLoader) { l.client = c }
}

// WithFetchTimeout bounds each candidate fetch.
func WithFetchTimeout(d time.Duration) LoaderOption {
	return func(l *AssetLoader) { l.timeout = d }
}

// WithLogoCache replaces the decoded-logo cache. Pass NoopCache to disable
// caching.
func WithLogoCache(c Cache[string, image.Image]) LoaderOption {
	return func(l *AssetLoader) { l.cache = c }
}

// WithLoaderLogger sets the logger.
func WithLoaderLogger(log *zap.Logger) LoaderOption {
	return func(l *AssetLoader) { l.logger = log }
}

// NewAssetLoader creates an AssetLoader.
func NewAssetLoader(opts ...LoaderOption) *AssetLoader {
	l := &AssetLoader{
		client:  http.DefaultClient,
		timeout: DefaultFetchTimeout,
		cache:   NewTTLCache[string, image.Image](logoCacheEntries),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = zap.NewNop()
	}
	return l
}

// LoadLogo fetches the logo at rawURL, trying each candidate variant in
// order. It returns a LOGO placeholder when every candidate fails.
func (l *AssetLoader) LoadLogo(ctx context.Context, rawURL string) Asset {
	candidates := LogoCandidates(rawURL)
	if len(candidates) == 0 {
		return Placeholder(PlaceholderLogoLabel)
	}
	if img, ok := l.cache.Get(candidates[0]); ok {
		return imageAsset(img, candidates[0])
	}

	var errs []error
	for _, candidate := range candidates {
		img, err := l.fetch(ctx, candidate)
		if err != nil {
			l.logger.Debug("logo candidate failed", zap.String("url", candidate), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		l.cache.Set(candidates[0], img, logoCacheTTL)
		return imageAsset(img, candidate)
	}

	l.logger.Warn("logo unavailable, drawing placeholder",
		zap.String("url", rawURL),
		zap.Int("candidates", len(candidates)),
		zap.Error(errors.Join(errs...)))
	return Placeholder(PlaceholderLogoLabel)
}

func (l *AssetLoader) fetch(ctx context.Context, rawURL string) (image.Image, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", logoAcceptHeader)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", rawURL, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("fetch %s: empty body", rawURL)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", rawURL, err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("decode %s: empty image", rawURL)
	}
	return img, nil
}
