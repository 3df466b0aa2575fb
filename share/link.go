// Package share publishes documents as read-only links. A link is the
// viewer's base URL with the document's JSON location in its "json" query
// parameter; opening it fetches and loads that JSON.
package share

import (
	"errors"
	"fmt"
	"net/url"
)

// QueryParam carries the JSON location in a share link.
const QueryParam = "json"

// ErrNoSource is returned by SourceURL for links without a JSON location.
var ErrNoSource = errors.New("link has no json parameter")

// Link returns base with jsonURL attached as the json query parameter.
func Link(base, jsonURL string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("share base: %w", err)
	}
	if _, err := parseHTTP(jsonURL); err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(QueryParam, jsonURL)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// SourceURL extracts the JSON location from a share link.
func SourceURL(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("share link: %w", err)
	}
	src := u.Query().Get(QueryParam)
	if src == "" {
		return "", ErrNoSource
	}
	return src, nil
}

func parseHTTP(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("json url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("json url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("json url %q: missing host", raw)
	}
	return u, nil
}
