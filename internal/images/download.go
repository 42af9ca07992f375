package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// ErrInvalidURL is returned for URLs that are not absolute http(s) URLs.
var ErrInvalidURL = errors.New("invalid image url")

// Download is an open upstream image body. Callers must close Body.
type Download struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// Downloader proxies remote images.
type Downloader struct {
	client *http.Client
}

// NewDownloader returns a downloader whose requests are bounded by timeout.
func NewDownloader(timeout time.Duration) *Downloader {
	return &Downloader{client: &http.Client{Timeout: timeout}}
}

// Fetch opens rawURL. Non-2xx responses are errors.
func (d *Downloader) Fetch(ctx context.Context, rawURL string) (*Download, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "image/*")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch image: unexpected status code %d", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "image/jpeg"
	}
	return &Download{Body: resp.Body, ContentType: ct, ContentLength: resp.ContentLength}, nil
}

// Filename picks the attachment name: the requested one, else the last URL
// path segment, else a generated name. An extension matching contentType
// is added when missing.
func Filename(requested, rawURL, contentType string, now time.Time) string {
	name := sanitize(requested)
	if name == "" {
		if u, err := url.Parse(rawURL); err == nil {
			if base := path.Base(u.Path); base != "." && base != "/" {
				name = sanitize(base)
			}
		}
	}
	if name == "" {
		name = fmt.Sprintf("xylogen-image-%d", now.UnixMilli())
	}
	if path.Ext(name) == "" {
		name += extension(contentType)
	}
	return name
}

func extension(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err == nil {
		switch mt {
		case "image/png":
			return ".png"
		case "image/gif":
			return ".gif"
		case "image/webp":
			return ".webp"
		}
	}
	return ".jpg"
}

func sanitize(name string) string {
	name = strings.TrimSpace(name)
	return strings.Map(func(r rune) rune {
		switch r {
		case '"', '\\', '/', '\r', '\n':
			return '_'
		}
		return r
	}, name)
}
