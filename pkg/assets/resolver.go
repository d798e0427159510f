package assets

import (
	"net/url"
	"strings"
)

// Resolver turns stored media paths into URLs a device can fetch.
type Resolver struct {
	base *url.URL
	raw  string
}

// NewResolver builds a resolver over baseURL, which may be absolute
// (https://cdn.example.com/media/) or a path prefix (/media/).
func NewResolver(baseURL string) (*Resolver, error) {
	raw := strings.TrimSpace(baseURL)
	if raw == "" {
		raw = "/media/"
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &Resolver{base: base, raw: raw}, nil
}

// URL resolves a stored path. Empty paths resolve to "", absolute URLs pass through.
func (r *Resolver) URL(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if ref, err := url.Parse(path); err == nil && ref.IsAbs() {
		return path
	}
	if r == nil || r.base == nil {
		return path
	}
	ref, err := url.Parse(strings.TrimLeft(path, "/"))
	if err != nil {
		return r.raw + strings.TrimLeft(path, "/")
	}
	return r.base.ResolveReference(ref).String()
}

// OptionalURL is URL for nullable columns.
func (r *Resolver) OptionalURL(path *string) string {
	if path == nil {
		return ""
	}
	return r.URL(*path)
}
