package search

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/matheus3301/portal/internal/httpx"
)

// ErrNotImage is returned when an asset response is not a decodable image.
var ErrNotImage = errors.New("asset is not an image")

// Thumbnails resolves result images to local files.
type Thumbnails interface {
	// Lookup returns the cached path for name if it exists.
	Lookup(name string) (string, bool)
	// Fetch downloads, validates and stores the thumbnail for name.
	Fetch(ctx context.Context, name string) (string, error)
}

// ThumbnailCache keeps thumbnails as files named "thumbnail<name>" in dir.
// Files are written once and never evicted.
type ThumbnailCache struct {
	dir  string
	http *httpx.Client
}

// NewThumbnailCache creates a cache in dir backed by the asset endpoint.
func NewThumbnailCache(dir, assetURL string, hc *http.Client) *ThumbnailCache {
	return &ThumbnailCache{dir: dir, http: httpx.NewClient(assetURL, hc)}
}

// Path returns where the thumbnail for name lives.
func (c *ThumbnailCache) Path(name string) string {
	return filepath.Join(c.dir, "thumbnail"+filepath.Base(name))
}

func (c *ThumbnailCache) Lookup(name string) (string, bool) {
	p := c.Path(name)
	if _, err := os.Stat(p); err != nil {
		return "", false
	}
	return p, true
}

func (c *ThumbnailCache) Fetch(ctx context.Context, name string) (string, error) {
	resp, err := c.http.Get(ctx, "/"+url.PathEscape(name)+"?descriptor=thumbnail")
	if err != nil {
		return "", fmt.Errorf("fetch thumbnail %s: %w", name, err)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "image") {
		return "", fmt.Errorf("%w: %s has content type %q", ErrNotImage, name, ct)
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(resp.Body)); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNotImage, name, err)
	}

	if err := os.MkdirAll(c.dir, 0o700); err != nil {
		return "", fmt.Errorf("create thumbnail dir: %w", err)
	}
	p := c.Path(name)
	f, err := os.CreateTemp(c.dir, "thumbnail-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create thumbnail temp: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("write thumbnail: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("write thumbnail: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("store thumbnail: %w", err)
	}
	return p, nil
}
