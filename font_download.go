package gocert

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// RemoteFont is a downloadable font family. Bold is optional; the regular
// program is used for bold text when it is missing.
type RemoteFont struct {
	Family  string `yaml:"family"`
	Regular string `yaml:"regular"`
	Bold    string `yaml:"bold,omitempty"`
}

// DefaultRemoteFonts are tried in order when the embedded fonts cannot be
// registered.
var DefaultRemoteFonts = []RemoteFont{
	{
		Family:  "Roboto",
		Regular: "https://raw.githubusercontent.com/googlefonts/roboto/main/src/hinted/Roboto-Regular.ttf",
		Bold:    "https://raw.githubusercontent.com/googlefonts/roboto/main/src/hinted/Roboto-Bold.ttf",
	},
	{
		Family:  "Open Sans",
		Regular: "https://raw.githubusercontent.com/googlefonts/opensans/main/fonts/ttf/OpenSans-Regular.ttf",
		Bold:    "https://raw.githubusercontent.com/googlefonts/opensans/main/fonts/ttf/OpenSans-Bold.ttf",
	},
}

// fontDownloader fetches font programs into a cache directory, skipping the
// network when the destination file already exists. Concurrent requests for
// the same destination share one download, and files only appear under
// their final name once complete.
type fontDownloader struct {
	client *http.Client
	dir    string
	group  singleflight.Group
	logger *zap.Logger
}

func newFontDownloader(client *http.Client, dir string, logger *zap.Logger) *fontDownloader {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &fontDownloader{client: client, dir: dir, logger: logger}
}

// Fetch returns the font program at rawURL, downloading it if missing.
func (d *fontDownloader) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	dest, err := d.destination(rawURL)
	if err != nil {
		return nil, err
	}
	if data, err := readCachedFont(dest); err == nil {
		return data, nil
	}

	v, err, shared := d.group.Do(dest, func() (interface{}, error) {
		if data, err := readCachedFont(dest); err == nil {
			return data, nil
		}
		return d.download(ctx, rawURL, dest)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		d.logger.Debug("shared font download", zap.String("url", rawURL))
	}
	return v.([]byte), nil
}

// destination maps a URL to a stable file name inside the cache directory.
func (d *fontDownloader) destination(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse font url: %w", err)
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		base = "font.ttf"
	}
	sum := sha256.Sum256([]byte(rawURL))
	return filepath.Join(d.dir, fmt.Sprintf("%x-%s", sum[:4], base)), nil
}

func (d *fontDownloader) download(ctx context.Context, rawURL, dest string) ([]byte, error) {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create font cache dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build font request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download font: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("download font: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFontFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read font body: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("download font: empty body")
	}
	if len(data) > maxFontFileSize {
		return nil, fmt.Errorf("font file too large (max %d bytes)", maxFontFileSize)
	}

	tmp, err := os.CreateTemp(d.dir, ".download-*")
	if err != nil {
		return nil, fmt.Errorf("create temp font file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return nil, fmt.Errorf("write temp font file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("close temp font file: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("install font file: %w", err)
	}

	d.logger.Info("downloaded font",
		zap.String("url", rawURL),
		zap.String("path", dest),
		zap.Int("bytes", len(data)))
	return data, nil
}

func readCachedFont(p string) ([]byte, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 || info.Size() > maxFontFileSize {
		return nil, fmt.Errorf("cached font %s has invalid size %d", p, info.Size())
	}
	return os.ReadFile(p)
}

// isWindowsLike reports platforms where remote font registration is skipped.
func isWindowsLike(goos string) bool {
	return strings.EqualFold(goos, "windows")
}
