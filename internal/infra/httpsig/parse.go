package httpsig

import (
	"strconv"
	"strings"
)

// InputEntry is one parsed member of the Signature-Input header.
type InputEntry struct {
	KeyID   string
	Created int64
	Params  map[string]string
}

// ParseSignatureInput parses a Signature-Input header value into a
// label -> parameters mapping. Only an empty covered-component list "()" is
// supported; each member is `label=()(;key=value)*` with values optionally
// double-quoted. The parser is pure: no I/O, deterministic on its input.
func ParseSignatureInput(header string) (map[string]InputEntry, error) {
	if strings.TrimSpace(header) == "" || !strings.Contains(header, "=") {
		return nil, malformed("invalid Signature-Input")
	}

	out := make(map[string]InputEntry)
	for _, part := range splitTopLevel(header, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		label, rest, ok := strings.Cut(part, "=")
		if !ok {
			return nil, malformed("invalid item in Signature-Input")
		}
		label = strings.TrimSpace(label)
		if label == "" {
			return nil, malformed("missing label")
		}
		rest = strings.TrimSpace(rest)
		if !strings.HasPrefix(rest, "(") {
			return nil, malformed("missing covered components")
		}
		close := strings.IndexByte(rest, ')')
		if close < 0 {
			return nil, malformed("unterminated covered components")
		}
		if strings.TrimSpace(rest[1:close]) != "" {
			return nil, malformed("unsupported covered components")
		}

		entry := InputEntry{Params: make(map[string]string)}
		if params := strings.TrimSpace(rest[close+1:]); params != "" {
			for _, seg := range splitTopLevel(params, ';') {
				seg = strings.TrimSpace(seg)
				if seg == "" {
					continue
				}
				k, v, ok := strings.Cut(seg, "=")
				if !ok {
					return nil, malformed("invalid param")
				}
				k = strings.TrimSpace(k)
				v = strings.TrimSpace(v)
				if len(v) >= 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
					v = v[1 : len(v)-1]
				}
				entry.Params[k] = v
			}
		}
		entry.KeyID = entry.Params["keyid"]
		if raw, ok := entry.Params["created"]; ok {
			// Accepted but not enforced against clock skew.
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
				entry.Created = n
			}
		}
		out[label] = entry
	}
	return out, nil
}

// ParseSignature parses a Signature header value into a label -> base64url
// signature mapping. Each member is `label=:value:`.
func ParseSignature(header string) (map[string]string, error) {
	if strings.TrimSpace(header) == "" || !strings.Contains(header, "=") {
		return nil, malformed("invalid Signature")
	}

	out := make(map[string]string)
	for _, part := range splitTopLevel(header, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		label, rest, ok := strings.Cut(part, "=")
		if !ok {
			return nil, malformed("invalid item in Signature")
		}
		label = strings.TrimSpace(label)
		if label == "" {
			return nil, malformed("missing label")
		}
		rest = strings.TrimSpace(rest)
		if !strings.HasPrefix(rest, ":") || !strings.HasSuffix(rest, ":") {
			return nil, malformed("invalid signature value")
		}
		// A lone colon is a well-formed empty value; it fails verification,
		// not parsing.
		if len(rest) < 2 {
			out[label] = ""
			continue
		}
		out[label] = rest[1 : len(rest)-1]
	}
	return out, nil
}

// splitTopLevel splits s on sep, ignoring separators inside double quotes.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	var b strings.Builder
	inQuotes := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			b.WriteByte(c)
		case c == sep && !inQuotes:
			parts = append(parts, b.String())
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	parts = append(parts, b.String())
	return parts
}
