package kanko

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/kbukum/kanko/paging"
)

// Defaults for the public spot API.
const (
	DefaultBaseURL    = "https://www.chiikinogennki.soumu.go.jp"
	DefaultAPIVersion = "v001"
	DefaultFormat     = "json"
)

// Endpoint builds request URLs for the spot API. A category resource lives at
//
//	<BaseURL>/k-cloud-api/<APIVersion>/kanko/<category>/<Format>
type Endpoint struct {
	BaseURL    string
	APIVersion string
	Format     string
}

// DefaultEndpoint returns the production endpoint.
func DefaultEndpoint() Endpoint {
	return Endpoint{BaseURL: DefaultBaseURL, APIVersion: DefaultAPIVersion, Format: DefaultFormat}
}

func (e Endpoint) withDefaults() Endpoint {
	if e.BaseURL == "" {
		e.BaseURL = DefaultBaseURL
	}
	if e.APIVersion == "" {
		e.APIVersion = DefaultAPIVersion
	}
	if e.Format == "" {
		e.Format = DefaultFormat
	}
	return e
}

// segmentEscaper covers the sub-delimiters url.PathEscape leaves alone, so
// only unreserved characters appear literally in the category segment.
var segmentEscaper = strings.NewReplacer(
	"$", "%24", "&", "%26", "+", "%2B", ":", "%3A", "=", "%3D", "@", "%40",
)

// CategoryURL returns the resource URL for category without a query.
// The category is percent-encoded as a single path segment: everything but
// letters, digits and "-._~" is escaped, "/" included.
func (e Endpoint) CategoryURL(category string) string {
	e = e.withDefaults()
	return strings.TrimRight(e.BaseURL, "/") +
		"/k-cloud-api/" + e.APIVersion +
		"/kanko/" + segmentEscaper.Replace(url.PathEscape(category)) +
		"/" + e.Format
}

// CountURL returns the URL that reports how many spots category holds.
func (e Endpoint) CountURL(category string) string {
	return e.CategoryURL(category) + "?count=true"
}

// PageURL returns the URL for one page of spots.
func (e Endpoint) PageURL(p paging.Page) string {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(p.Limit))
	q.Set("skip", strconv.Itoa(p.Offset))
	return e.CategoryURL(p.Category) + "?" + q.Encode()
}
