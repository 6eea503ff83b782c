package middleware

import (
	"net/http"
	"strings"
)

// DefaultCORSAllowedMethods is the default set of methods allowed for CORS.
var DefaultCORSAllowedMethods = []string{"GET", "POST", "OPTIONS"}

// DefaultCORSAllowedHeaders is the default set of request headers allowed for CORS.
var DefaultCORSAllowedHeaders = []string{"Accept", "Content-Type", "X-Request-Id"}

// OriginMatcher decides whether an Origin may make credentialed requests.
// Entries are exact origins ("http://localhost:5500") or wildcard-subdomain
// patterns ("https://*.example.app"). A pattern never matches its bare apex.
type OriginMatcher struct {
	exact    map[string]bool
	wildcard []wildcardOrigin
}

type wildcardOrigin struct {
	scheme string // "https://"
	suffix string // ".example.app"
}

// NewOriginMatcher builds a matcher from an allow-list.
func NewOriginMatcher(origins []string) *OriginMatcher {
	m := &OriginMatcher{exact: make(map[string]bool)}
	for _, o := range origins {
		o = strings.TrimSuffix(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		if scheme, host, ok := strings.Cut(o, "://"); ok && strings.HasPrefix(host, "*.") {
			m.wildcard = append(m.wildcard, wildcardOrigin{scheme: scheme + "://", suffix: host[1:]})
			continue
		}
		m.exact[o] = true
	}
	return m
}

// Allowed reports whether origin is on the list.
func (m *OriginMatcher) Allowed(origin string) bool {
	if m.exact[origin] {
		return true
	}
	for _, w := range m.wildcard {
		if !strings.HasPrefix(origin, w.scheme) {
			continue
		}
		host := strings.TrimPrefix(origin, w.scheme)
		if strings.HasSuffix(host, w.suffix) && len(host) > len(w.suffix) && !strings.ContainsAny(host, "/@") {
			return true
		}
	}
	return false
}

// Empty reports whether no origin at all is allowed.
func (m *OriginMatcher) Empty() bool {
	return len(m.exact) == 0 && len(m.wildcard) == 0
}

// CORS sets credentialed CORS headers for allowed origins and answers their
// preflights. Requests carrying any other Origin are rejected with 403.
// Requests without an Origin header (same-origin, curl, the CLI) pass through.
func CORS(origins []string) func(http.Handler) http.Handler {
	matcher := NewOriginMatcher(origins)
	methods := strings.Join(DefaultCORSAllowedMethods, ", ")
	headers := strings.Join(DefaultCORSAllowedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Add("Vary", "Origin")
			if !matcher.Allowed(origin) {
				writeError(w, http.StatusForbidden, "origin not allowed")
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				w.Header().Set("Access-Control-Max-Age", "86400")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
