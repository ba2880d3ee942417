package paginate

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// URIBuilder rewrites the pagination parameters of the current request
// while keeping its path and every other query parameter.
type URIBuilder struct {
	base  url.URL
	query url.Values
}

// NewURIBuilder anchors links at baseURL (scheme and host, e.g.
// "https://api.example.com"). An empty or unparsable baseURL falls back to
// the host the request came in on.
func NewURIBuilder(baseURL string, r *http.Request) *URIBuilder {
	var base url.URL
	if u, err := url.Parse(strings.TrimRight(baseURL, "/")); err == nil && u.Host != "" {
		base = url.URL{Scheme: u.Scheme, Host: u.Host, Path: u.Path}
	} else {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		base = url.URL{Scheme: scheme, Host: r.Host}
	}
	base.Path = strings.TrimRight(base.Path, "/") + r.URL.Path

	query := url.Values{}
	for k, v := range r.URL.Query() {
		query[k] = append([]string(nil), v...)
	}
	return &URIBuilder{base: base, query: query}
}

// Self returns the URI of the request itself.
func (b *URIBuilder) Self() string {
	u := b.base
	u.RawQuery = b.query.Encode()
	return u.String()
}

// PageLink is a LinkFunc.
func (b *URIBuilder) PageLink(number, size int) string {
	q := url.Values{}
	for k, v := range b.query {
		q[k] = v
	}
	q.Set(NumberParam, strconv.Itoa(number))
	q.Set(SizeParam, strconv.Itoa(size))

	u := b.base
	u.RawQuery = q.Encode()
	return u.String()
}

// Resource returns the request path with elem appended, without any query.
// It links the individual rows of a collection response.
func (b *URIBuilder) Resource(elem ...string) string {
	u := b.base
	for _, e := range elem {
		u.Path = strings.TrimRight(u.Path, "/") + "/" + url.PathEscape(e)
	}
	return u.String()
}
