package httpsig

import (
	"strconv"
	"strings"
)

// BaseInput carries the request attributes the canonical base builder needs.
// It is deliberately a plain value so CandidateBases stays a pure function.
type BaseInput struct {
	Method string
	Scheme string // "http" or "https"; empty means "http"
	Host   string // Host header as received, possibly with a port

	// Path is the request path, root path included. RequestURI additionally
	// carries the raw query when one was present.
	Path       string
	RequestURI string

	// BaseURL is an externally configured base URL, when the deployment pins
	// one (reverse proxy in front, test harness, etc.).
	BaseURL string

	// Listener host/port tuple, when known. This is the most authoritative
	// rendering of the serving address.
	ListenerHost string
	ListenerPort int
}

func (in BaseInput) scheme() string {
	if in.Scheme == "" {
		return "http"
	}
	return in.Scheme
}

// SigningBase returns the exact base clients are documented to sign:
// "{METHOD} {base_url_without_trailing_slash}{path}". It is always present
// in CandidateBases, so the documented form is one candidate among the full
// set rather than a separate policy.
func SigningBase(in BaseInput) string {
	base := in.BaseURL
	if base == "" {
		base = in.scheme() + "://" + in.Host
	}
	return strings.ToUpper(in.Method) + " " + strings.TrimRight(base, "/") + in.Path
}

// CandidateBases returns the ordered set of canonical bases a valid
// signature may have been computed over. The exact absolute URL a client
// signed can differ textually from how this server renders the same request
// (default-port presence, trailing slash, doubled slash from base-URL
// concatenation, Host header vs. listener address), so every rendering is a
// candidate. Candidates are deduplicated preserving priority order, most
// authoritative first; verification tries them in order.
func CandidateBases(in BaseInput) []string {
	method := strings.ToUpper(in.Method)
	scheme := in.scheme()
	path := in.Path

	var urls []string

	if in.ListenerHost != "" {
		hostport := in.ListenerHost
		if in.ListenerPort > 0 && !isDefaultPort(scheme, in.ListenerPort) {
			hostport += ":" + strconv.Itoa(in.ListenerPort)
		}
		urls = append(urls, scheme+"://"+hostport+path)
	}

	base := in.BaseURL
	if base == "" && in.Host != "" {
		base = scheme + "://" + in.Host
	}
	trimmedBase := strings.TrimRight(base, "/")
	if base != "" {
		urls = append(urls, trimmedBase+path)
	}

	if in.Host != "" {
		uri := in.RequestURI
		if uri == "" {
			uri = path
		}
		urls = append(urls, scheme+"://"+in.Host+uri)
	}

	// Base URL with its trailing slash kept, tolerating an accidental "//".
	if base != "" {
		urls = append(urls, trimmedBase+"/"+path)
	}

	if in.Host != "" {
		urls = append(urls, scheme+"://"+in.Host+path)
		if host, ok := stripDefaultPort(scheme, in.Host); ok {
			urls = append(urls, scheme+"://"+host+path)
		} else if !strings.Contains(in.Host, ":") {
			urls = append(urls, scheme+"://"+in.Host+":"+defaultPort(scheme)+path)
		}
	}

	bases := make([]string, 0, len(urls))
	for _, u := range urls {
		bases = append(bases, method+" "+u)
	}

	// Trailing-slash twin for every distinct candidate, twins after their
	// originals so priority order survives.
	out := make([]string, 0, len(bases)*2)
	seen := make(map[string]struct{}, len(bases)*2)
	for i := 0; i < len(bases); i++ {
		s := bases[i]
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
		if alt := toggleTrailingSlash(s); alt != s {
			if _, ok := seen[alt]; !ok {
				bases = append(bases, alt)
			}
		}
	}
	return out
}

func toggleTrailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return strings.TrimRight(s, "/")
	}
	return s + "/"
}

func isDefaultPort(scheme string, port int) bool {
	return (scheme == "http" && port == 80) || (scheme == "https" && port == 443)
}

func defaultPort(scheme string) string {
	if scheme == "https" {
		return "443"
	}
	return "80"
}

func stripDefaultPort(scheme, host string) (string, bool) {
	suffix := ":" + defaultPort(scheme)
	if strings.HasSuffix(host, suffix) {
		return strings.TrimSuffix(host, suffix), true
	}
	return host, false
}
