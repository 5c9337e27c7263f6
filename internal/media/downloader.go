// Package media downloads listing images for embedding into the report.
// Downloads are best-effort: a failure returns absence, never an error.
package media

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
)

// Downloader fetches remote images into a local working directory.
type Downloader struct {
	client *http.Client
	logger *slog.Logger
}

// NewDownloader creates an image downloader.
func NewDownloader(logger *slog.Logger) *Downloader {
	transport := &http.Transport{
		MaxIdleConns:    10,
		IdleConnTimeout: 90 * time.Second,
		// We handle decompression ourselves (including brotli)
		DisableCompression: true,
	}
	return &Downloader{
		client: &http.Client{
			Timeout:   60 * time.Second,
			Transport: transport,
		},
		logger: logger.With("component", "image_downloader"),
	}
}

// Download fetches rawURL into dir under baseName plus a derived extension.
// It returns the local file path and true on success; any failure is logged
// at debug level and reported as ("", false).
func (d *Downloader) Download(ctx context.Context, rawURL, dir, baseName string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		d.logger.Debug("image request build failed", "url", rawURL, "error", err)
		return "", false
	}
	req.Header.Set("Accept", "image/avif,image/webp,image/*,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Debug("image download failed", "url", rawURL, "error", err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		d.logger.Debug("image download failed", "url", rawURL, "status", resp.StatusCode)
		return "", false
	}

	body, err := decodeBody(resp)
	if err != nil {
		d.logger.Debug("image decode failed", "url", rawURL, "error", err)
		return "", false
	}
	defer body.Close()

	localPath := filepath.Join(dir, sanitizeBaseName(baseName)+pickExtension(rawURL, resp.Header.Get("Content-Type")))
	f, err := os.Create(localPath)
	if err != nil {
		d.logger.Debug("image file create failed", "path", localPath, "error", err)
		return "", false
	}
	defer f.Close()

	size, err := io.Copy(f, body)
	if err != nil {
		os.Remove(localPath)
		d.logger.Debug("image write failed", "path", localPath, "error", err)
		return "", false
	}

	d.logger.Debug("image downloaded", "url", rawURL, "path", localPath, "size", size)
	return localPath, true
}

// decodeBody unwraps the response body according to Content-Encoding.
func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "gzip":
		r, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		return r, nil
	case "deflate":
		return flate.NewReader(resp.Body), nil
	case "br":
		return io.NopCloser(brotli.NewReader(resp.Body)), nil
	default:
		return io.NopCloser(resp.Body), nil
	}
}

// pickExtension derives a file extension from the URL path, falling back to
// the response content type, then to .jpg.
func pickExtension(rawURL, contentType string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if ext := path.Ext(u.Path); ext != "" && len(ext) <= 5 {
			return ext
		}
	}
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return exts[0]
	}
	return ".jpg"
}

// sanitizeBaseName strips path separators and other characters that are
// unsafe in file names.
func sanitizeBaseName(name string) string {
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-",
		"?", "-", "\"", "-", "<", "-", ">", "-", "|", "-",
	)
	cleaned := strings.TrimSpace(replacer.Replace(name))
	if cleaned == "" {
		return "image"
	}
	return cleaned
}
