package media

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/andybalholm/brotli"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDownloadSuccess(t *testing.T) {
	payload := []byte("not-really-a-jpeg")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(payload)
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := NewDownloader(testLogger())

	localPath, ok := d.Download(context.Background(), srv.URL+"/thumbs/s-l225.jpg", dir, "listing widget 1")
	if !ok {
		t.Fatal("expected download to succeed")
	}
	if filepath.Dir(localPath) != dir {
		t.Errorf("file written outside dir: %s", localPath)
	}
	if filepath.Ext(localPath) != ".jpg" {
		t.Errorf("extension = %q, want .jpg", filepath.Ext(localPath))
	}

	data, err := os.ReadFile(localPath)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("payload mismatch: got %q", data)
	}
}

func TestDownloadDecodesContentEncoding(t *testing.T) {
	payload := []byte("real-image-bytes")

	encoders := map[string]func([]byte) []byte{
		"gzip": func(b []byte) []byte {
			var buf bytes.Buffer
			w := gzip.NewWriter(&buf)
			w.Write(b)
			w.Close()
			return buf.Bytes()
		},
		"deflate": func(b []byte) []byte {
			var buf bytes.Buffer
			w, _ := flate.NewWriter(&buf, flate.DefaultCompression)
			w.Write(b)
			w.Close()
			return buf.Bytes()
		},
		"br": func(b []byte) []byte {
			var buf bytes.Buffer
			w := brotli.NewWriter(&buf)
			w.Write(b)
			w.Close()
			return buf.Bytes()
		},
	}

	for encoding, encode := range encoders {
		t.Run(encoding, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "image/jpeg")
				w.Header().Set("Content-Encoding", encoding)
				w.Write(encode(payload))
			}))
			defer srv.Close()

			d := NewDownloader(testLogger())
			localPath, ok := d.Download(context.Background(), srv.URL+"/img.jpg", t.TempDir(), "x")
			if !ok {
				t.Fatalf("expected %s download to succeed", encoding)
			}
			data, err := os.ReadFile(localPath)
			if err != nil {
				t.Fatalf("read downloaded file: %v", err)
			}
			if string(data) != string(payload) {
				t.Errorf("file holds encoded bytes, not the image: got %q want %q", data, payload)
			}
		})
	}
}

func TestDownloadNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	d := NewDownloader(testLogger())
	if _, ok := d.Download(context.Background(), srv.URL+"/missing.jpg", t.TempDir(), "x"); ok {
		t.Error("expected download to fail on 404")
	}
}

func TestDownloadBadURL(t *testing.T) {
	d := NewDownloader(testLogger())
	if _, ok := d.Download(context.Background(), "http://127.0.0.1:1/img.jpg", t.TempDir(), "x"); ok {
		t.Error("expected download to fail on connection error")
	}
}

func TestSanitizeBaseName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"listing widget 3", "listing widget 3"},
		{`bad/name\with:stuff`, "bad-name-with-stuff"},
		{"  ", "image"},
	}
	for _, tt := range tests {
		if got := sanitizeBaseName(tt.in); got != tt.want {
			t.Errorf("sanitizeBaseName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPickExtension(t *testing.T) {
	if got := pickExtension("https://i.example.com/a/b/s-l225.webp?x=1", "image/jpeg"); got != ".webp" {
		t.Errorf("url ext = %q, want .webp", got)
	}
	if got := pickExtension("https://i.example.com/a/b/noext", "image/png"); got != ".png" {
		t.Errorf("content-type ext = %q, want .png", got)
	}
	if got := pickExtension("https://i.example.com/a", ""); got != ".jpg" {
		t.Errorf("fallback ext = %q, want .jpg", got)
	}
}
