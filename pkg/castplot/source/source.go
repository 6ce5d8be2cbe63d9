// Package source acquires the document a pipeline run analyses.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/cognicore/castplot/pkg/castplot/internalerr"
)

// Origin tells where a document's text came from.
type Origin string

const (
	OriginCache   Origin = "cache"
	OriginNetwork Origin = "network"
	OriginFile    Origin = "file"
)

// Document is the full text of a source book.
type Document struct {
	Text   string
	Origin Origin
	URL    string // empty for local files
	Path   string
}

// Provider yields the document to analyse.
type Provider interface {
	Fetch(ctx context.Context) (Document, error)
}

// CachedProvider reads a local cache file, downloading it from URL the first
// time. There is no retry and no staleness check: an existing cache file
// always wins.
type CachedProvider struct {
	CachePath string
	URL       string
	Client    *http.Client        // http.DefaultClient when nil
	Log       *zap.SugaredLogger // no-op when nil
}

// Fetch returns the cached document, downloading and caching it first if
// the cache file does not exist.
func (p *CachedProvider) Fetch(ctx context.Context) (Document, error) {
	log := p.logger()

	data, err := os.ReadFile(p.CachePath)
	if err == nil {
		log.Debugf("using cached document %s (%d bytes)", p.CachePath, len(data))
		return Document{Text: string(data), Origin: OriginCache, URL: p.URL, Path: p.CachePath}, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return Document{}, fmt.Errorf("read cache %s: %w", p.CachePath, err)
	}

	log.Infof("downloading %s", p.URL)
	text, err := p.download(ctx)
	if err != nil {
		return Document{}, err
	}

	if err := writeFileAtomic(p.CachePath, []byte(text)); err != nil {
		return Document{}, fmt.Errorf("write cache %s: %w", p.CachePath, err)
	}
	log.Infof("cached %d bytes at %s", len(text), p.CachePath)

	return Document{Text: text, Origin: OriginNetwork, URL: p.URL, Path: p.CachePath}, nil
}

func (p *CachedProvider) download(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", internalerr.ErrFetch, err)
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: GET %s: %w", internalerr.ErrFetch, p.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: GET %s: HTTP %d", internalerr.ErrFetch, p.URL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %w", internalerr.ErrFetch, err)
	}

	if isHTML(resp.Header.Get("Content-Type")) {
		return stripHTML(string(body)), nil
	}
	return string(body), nil
}

func (p *CachedProvider) logger() *zap.SugaredLogger {
	if p.Log == nil {
		return zap.NewNop().Sugar()
	}
	return p.Log
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// writeFileAtomic writes through a temp file so a failed download never
// leaves a truncated cache behind.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// FileProvider reads a local document without touching the network.
type FileProvider struct {
	Path string
}

// Fetch reads the file at Path.
func (p *FileProvider) Fetch(ctx context.Context) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", p.Path, err)
	}
	return Document{Text: string(data), Origin: OriginFile, Path: p.Path}, nil
}
