package resourcekit

import (
	"fmt"
	"net/url"
	"strings"
)

// defaultPorts maps schemes to ports that are implied and therefore
// stripped during normalization.
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
	"ws":    "80",
	"wss":   "443",
}

// NormalizeURI canonicalizes a raw URI into the registry key form:
// scheme and host are lowercased, a default port is stripped, the
// fragment is dropped, and a bare "/" path is removed. The parsed URL
// is returned alongside the key so drivers see the same normalized
// view the registry keys on.
//
// Two URIs that normalize to the same key address the same resource.
// No normalization is applied beyond this; query ordering and
// percent-encoding are preserved as given.
func NormalizeURI(raw string) (string, *url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", nil, fmt.Errorf("parse uri %q: %w", raw, ErrInvalidURI)
	}
	if u.Scheme == "" {
		return "", nil, fmt.Errorf("uri %q has no scheme: %w", raw, ErrInvalidURI)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	if port := u.Port(); port != "" && port == defaultPorts[u.Scheme] {
		// Trim the suffix rather than rebuild from Hostname, which
		// would drop the brackets around an IPv6 literal.
		u.Host = strings.TrimSuffix(u.Host, ":"+port)
	}
	if u.Path == "/" && u.Opaque == "" {
		u.Path = ""
	}

	return u.String(), u, nil
}
