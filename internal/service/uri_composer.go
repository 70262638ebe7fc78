package service

import (
	"net/url"
	"strings"
)

// URIComposer expands relative media paths against the catalog base URL
type URIComposer struct {
	baseURL string
}

// NewURIComposer creates a composer for a base URL fixed at startup
func NewURIComposer(baseURL string) *URIComposer {
	return &URIComposer{baseURL: baseURL}
}

// Compose resolves relativeURI against the configured base URL
func (c *URIComposer) Compose(relativeURI string) string {
	return ComposeURI(c.baseURL, relativeURI)
}

// ComposeURI joins basePath and relativeURI with exactly one slash.
// Absolute URIs pass through unchanged and an empty relativeURI yields "".
func ComposeURI(basePath, relativeURI string) string {
	relativeURI = strings.TrimSpace(relativeURI)
	if relativeURI == "" {
		return ""
	}
	if isAbsolute(relativeURI) {
		return relativeURI
	}

	base := strings.TrimRight(basePath, "/")
	if base == "" {
		return relativeURI
	}
	return base + "/" + strings.TrimLeft(relativeURI, "/")
}

func isAbsolute(uri string) bool {
	if strings.HasPrefix(uri, "//") {
		return true
	}
	u, err := url.Parse(uri)
	return err == nil && u.IsAbs() && u.Host != ""
}
