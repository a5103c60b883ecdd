package reference

import "strings"

// IconPath strips prefix from raw (ignoring case) and lowercases the rest.
// The icon host only serves lowercase paths.
func IconPath(raw, prefix string) string {
	p := raw
	if prefix != "" && len(p) >= len(prefix) && strings.EqualFold(p[:len(prefix)], prefix) {
		p = p[len(prefix):]
	}
	return strings.ToLower(strings.TrimLeft(p, "/"))
}

// IconURL templates the derived icon path into base.
func IconURL(base, raw, prefix string) string {
	if raw == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + IconPath(raw, prefix)
}
