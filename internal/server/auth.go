package server

import (
	"net/http"
	"strings"
)

// Authorizer answers whether the user behind r holds perm.
type Authorizer interface {
	HasPermission(r *http.Request, perm string) bool
}

// HeaderAuthorizer trusts a user name set by an authenticating proxy.
// Listed admins hold every permission; everyone else holds none.
type HeaderAuthorizer struct {
	header string
	admins map[string]struct{}
}

// NewHeaderAuthorizer reads the user from header.
func NewHeaderAuthorizer(header string, admins []string) *HeaderAuthorizer {
	a := &HeaderAuthorizer{header: header, admins: make(map[string]struct{}, len(admins))}
	for _, u := range admins {
		if u = strings.TrimSpace(u); u != "" {
			a.admins[u] = struct{}{}
		}
	}
	return a
}

func (a *HeaderAuthorizer) HasPermission(r *http.Request, _ string) bool {
	user := strings.TrimSpace(r.Header.Get(a.header))
	if user == "" {
		return false
	}
	_, ok := a.admins[user]
	return ok
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func(r *http.Request, perm string) bool

func (f AuthorizerFunc) HasPermission(r *http.Request, perm string) bool { return f(r, perm) }
