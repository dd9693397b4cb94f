// Package remote holds the file sources and the socket channel the shell
// resolves commands against.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const maxBody = 4 << 20

// HTTPFiles fetches files from a static host and lists them through a
// GitHub-contents style JSON endpoint.
type HTTPFiles struct {
	BaseURL      string
	DirectoryURL string
	Client       *http.Client
}

func NewHTTPFiles(baseURL, directoryURL string, timeout time.Duration) *HTTPFiles {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPFiles{
		BaseURL:      baseURL,
		DirectoryURL: directoryURL,
		Client:       &http.Client{Timeout: timeout},
	}
}

func (h *HTTPFiles) client() *http.Client {
	if h.Client != nil {
		return h.Client
	}
	return http.DefaultClient
}

// Fetch GETs <base>/<name>. Any non-2xx status is an error.
func (h *HTTPFiles) Fetch(ctx context.Context, name string) (string, error) {
	if strings.TrimSpace(h.BaseURL) == "" {
		return "", errors.New("files base url is empty")
	}
	target := strings.TrimRight(h.BaseURL, "/") + "/" + url.PathEscape(name)
	body, err := h.get(ctx, target)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", name, err)
	}
	return string(body), nil
}

// List GETs the directory URL and returns the name of every entry.
func (h *HTTPFiles) List(ctx context.Context) ([]string, error) {
	if strings.TrimSpace(h.DirectoryURL) == "" {
		return nil, errors.New("files directory url is empty")
	}
	body, err := h.get(ctx, h.DirectoryURL)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return ParseListing(body)
}

// ParseListing reads the names out of a JSON array of {"name": ...} objects.
func ParseListing(body []byte) ([]string, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("listing is not valid json")
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsArray() {
		return nil, errors.New("listing is not a json array")
	}
	var names []string
	for _, n := range doc.Get("#.name").Array() {
		if name := n.String(); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

func (h *HTTPFiles) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBody))
}

// DirFiles serves the same two operations from a local directory.
type DirFiles struct {
	Root string
}

// ErrInvalidName rejects names that would escape the root.
var ErrInvalidName = errors.New("invalid file name")

func (d *DirFiles) path(name string) (string, error) {
	if name == "" || !filepath.IsLocal(name) || strings.ContainsAny(name, `/\`) {
		return "", ErrInvalidName
	}
	return filepath.Join(d.Root, name), nil
}

func (d *DirFiles) Fetch(_ context.Context, name string) (string, error) {
	p, err := d.path(name)
	if err != nil {
		return "", fmt.Errorf("fetch %q: %w", name, err)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", name, err)
	}
	return string(data), nil
}

// List returns regular, non-hidden files sorted by name.
func (d *DirFiles) List(context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.Root)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
