package format

import (
	"net/url"
	"strings"
)

// Link kinds understood by LinkBuilder implementations.
const (
	KindBrowser   = "browser"
	KindChangeset = "changeset"
	KindTicket    = "ticket"
	KindWiki      = "wiki"
	KindReport    = "report"
	KindQuery     = "query"
	KindTable     = "table"
)

// LinkBuilder resolves a host resource to a URL.
type LinkBuilder interface {
	BuildLink(kind, value string) string
}

// PathLinks builds host-style paths under Base: "<base>/<kind>/<value>".
// Queries link back to the console and tables to their detail page.
type PathLinks struct {
	Base string
}

func (p PathLinks) BuildLink(kind, value string) string {
	base := strings.TrimSuffix(p.Base, "/")
	switch kind {
	case KindQuery:
		return base + "/sql?query=" + url.QueryEscape(value)
	case KindTable:
		return base + "/sql/tables/" + url.PathEscape(value)
	case KindBrowser:
		return base + "/browser/" + escapePath(strings.TrimPrefix(value, "/"))
	case KindWiki:
		return base + "/wiki/" + escapePath(value)
	default:
		return base + "/" + kind + "/" + url.PathEscape(value)
	}
}

// escapePath escapes each segment of a slash-separated path.
func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}
