// Package mediatype provides parsing and matching of HTTP media types for
// compression-exclusion decisions.
//
// A media type is reduced to its type/subtype pair; parameters such as
// charset are parsed and discarded. Exclusion patterns may use a wildcard
// subtype ("image/*"), and the wildcard is honored on the pattern side
// only: a wildcard declared by a response never matches a concrete pattern.
package mediatype

import (
	"fmt"
	"mime"
	"strings"
)

// MediaType is a parsed type/subtype pair. Both parts are lower case.
type MediaType struct {
	Top string
	Sub string
}

// Parse parses a media type or exclusion pattern such as "text/html",
// "image/*" or "application/json; charset=utf-8". It fails on anything
// without a well-formed type/subtype pair.
func Parse(s string) (MediaType, error) {
	base, _, err := mime.ParseMediaType(s)
	if err != nil {
		return MediaType{}, fmt.Errorf("media type %q: %w", s, err)
	}
	top, sub, ok := strings.Cut(base, "/")
	if !ok || top == "" || sub == "" {
		return MediaType{}, fmt.Errorf("media type %q: missing subtype", s)
	}
	return MediaType{Top: top, Sub: sub}, nil
}

// ParseContentType parses a Content-Type header value, returning nil when
// the header is empty or malformed. A response without a usable declared
// type is treated as having none at all.
func ParseContentType(header string) *MediaType {
	if header == "" {
		return nil
	}
	mt, err := Parse(header)
	if err != nil {
		return nil
	}
	return &mt
}

// String formats the media type as "type/subtype".
func (m MediaType) String() string {
	return m.Top + "/" + m.Sub
}

// Matches reports whether m falls under pattern. A pattern with subtype "*"
// matches every media type sharing its top-level type; otherwise both parts
// must be equal.
func (m MediaType) Matches(pattern MediaType) bool {
	if m.Top != pattern.Top {
		return false
	}
	return pattern.Sub == "*" || m.Sub == pattern.Sub
}

// Exclusions is a list of media type patterns exempt from compression.
type Exclusions []MediaType

// ParseExclusions parses a list of exclusion patterns. Any malformed
// pattern makes the whole list invalid.
func ParseExclusions(patterns []string) (Exclusions, error) {
	excl := make(Exclusions, 0, len(patterns))
	for _, p := range patterns {
		mt, err := Parse(p)
		if err != nil {
			return nil, fmt.Errorf("exclusion pattern: %w", err)
		}
		excl = append(excl, mt)
	}
	return excl, nil
}

// Excludes reports whether the declared content type falls under any
// pattern in the list. An absent content type (nil) is never excluded.
func (x Exclusions) Excludes(ct *MediaType) bool {
	if ct == nil {
		return false
	}
	for _, pattern := range x {
		if ct.Matches(pattern) {
			return true
		}
	}
	return false
}

// DefaultExclusions returns the built-in exclusion list: payload formats
// that are already compressed and gain nothing from another pass. Callers
// configuring their own list replace these entirely.
func DefaultExclusions() Exclusions {
	return Exclusions{
		{Top: "application", Sub: "gzip"},
		{Top: "application", Sub: "zip"},
		{Top: "image", Sub: "*"},
		{Top: "video", Sub: "*"},
		{Top: "application", Sub: "wasm"},
		{Top: "application", Sub: "octet-stream"},
	}
}
