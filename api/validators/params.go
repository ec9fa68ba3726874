package validators

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	pkgerrors "github.com/petadopt/petadopt-backend/pkg/errors"
)

// ParseIDParam reads a positive integer route parameter. Anything else is a
// missing page rather than a bad request.
func ParseIDParam(r *http.Request, key string) (uint, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeNotFound, "The page you requested could not be found.").
			WithDetails(map[string]any{"param": key})
	}
	return uint(value), nil
}

// SafeRedirect returns target when it is a local absolute path and fallback
// otherwise. Protocol-relative and backslash forms are refused, as are control
// characters whether raw or percent-encoded.
func SafeRedirect(target, fallback string) string {
	target = strings.TrimSpace(target)
	if !isLocalPath(target) {
		return fallback
	}
	return target
}

func isLocalPath(target string) bool {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return false
	}
	if strings.Contains(target, "\\") || hasControlChar(target) {
		return false
	}
	parsed, err := url.Parse(target)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" || parsed.User != nil || parsed.Opaque != "" {
		return false
	}
	if !strings.HasPrefix(parsed.Path, "/") || strings.HasPrefix(parsed.Path, "//") {
		return false
	}
	unescaped, err := url.PathUnescape(target)
	if err != nil {
		return false
	}
	return !strings.HasPrefix(unescaped, "//") && !strings.Contains(unescaped, "\\") && !hasControlChar(unescaped)
}

func hasControlChar(value string) bool {
	return strings.IndexFunc(value, func(r rune) bool {
		return r < 0x20 || r == 0x7f
	}) >= 0
}
