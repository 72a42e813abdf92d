package httputil

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// maxURLLength bounds user-submitted URLs before any parsing happens.
const maxURLLength = 2048

// Validation errors, distinguished so the HTTP layer can report the
// specific rejection reason.
var (
	ErrTooLong          = errors.New("URL too long")
	ErrMalformed        = errors.New("invalid URL format")
	ErrSchemeNotAllowed = errors.New("only HTTP/HTTPS URLs are allowed")
	ErrInternalAddress  = errors.New("internal/private URLs are not allowed")
)

// blockedV4Prefixes match loopback, private, and link-local IPv4 ranges:
// 127.0.0.0/8, 10.0.0.0/8, 192.168.0.0/16, 169.254.0.0/16.
// The 172.16.0.0/12 range needs its own check, see blockedPrivate172.
var blockedV4Prefixes = []string{"127.", "10.", "192.168.", "169.254."}

// blockedV6Prefixes match unique-local fc00::/7 and link-local fe80::/10
// addresses. Applied only to hosts containing a colon so regular hostnames
// starting with "fc" are unaffected.
var blockedV6Prefixes = []string{"fc", "fd", "fe80:"}

// blockedHostExact are hostnames rejected outright.
var blockedHostExact = []string{
	"localhost", "0.0.0.0", "::1", "[::1]",
}

// NormalizeVideoURL validates a user-submitted URL and returns its
// normalized absolute form. URLs without a scheme get https:// prefixed.
// Loopback, private, and link-local hosts are rejected to limit SSRF.
//
// The host check is string matching only — it does not resolve DNS, so a
// public hostname that rebinds to a private address is not caught. This is
// an advisory defense, not a guarantee.
func NormalizeVideoURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty URL", ErrMalformed)
	}
	if len(raw) > maxURLLength {
		return "", ErrTooLong
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrSchemeNotAllowed
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", fmt.Errorf("%w: URL has no host", ErrMalformed)
	}

	if blockedHost(host) {
		return "", ErrInternalAddress
	}

	return u.String(), nil
}

// blockedHost reports whether a lowercased hostname matches the
// loopback/private/link-local blocklist.
func blockedHost(host string) bool {
	for _, exact := range blockedHostExact {
		if host == exact {
			return true
		}
	}
	if strings.Contains(host, ":") {
		for _, prefix := range blockedV6Prefixes {
			if strings.HasPrefix(host, prefix) {
				return true
			}
		}
		return false
	}
	for _, prefix := range blockedV4Prefixes {
		if strings.HasPrefix(host, prefix) {
			return true
		}
	}
	return blockedPrivate172(host)
}

// blockedPrivate172 matches the 172.16.0.0/12 range (172.16. through 172.31.).
func blockedPrivate172(host string) bool {
	if !strings.HasPrefix(host, "172.") {
		return false
	}
	rest := strings.TrimPrefix(host, "172.")
	idx := strings.Index(rest, ".")
	if idx <= 0 {
		return false
	}
	switch octet := rest[:idx]; len(octet) {
	case 2:
		return octet >= "16" && octet <= "31"
	default:
		return false
	}
}

// IsValidationError reports whether err belongs to the URL validation
// taxonomy (as opposed to a downstream extraction failure).
func IsValidationError(err error) bool {
	return errors.Is(err, ErrTooLong) ||
		errors.Is(err, ErrMalformed) ||
		errors.Is(err, ErrSchemeNotAllowed) ||
		errors.Is(err, ErrInternalAddress)
}

// SanitizeFilename removes path traversal and dangerous characters from a
// filename. Returns just the base name, stripped of directory components.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)

	replacer := strings.NewReplacer(
		"..", "_",
		"/", "_",
		"\\", "_",
		"\x00", "",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	name = replacer.Replace(name)

	if name == "" || name == "." || name == ".." {
		return "untitled"
	}

	return name
}

// SafeDownloadPath resolves and validates a download path, ensuring it stays
// within the target directory.
func SafeDownloadPath(dir, filename string) (string, error) {
	sanitized := SanitizeFilename(filename)

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	full := filepath.Join(absDir, sanitized)

	resolved, err := filepath.Abs(full)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	if !strings.HasPrefix(resolved, absDir+string(filepath.Separator)) && resolved != absDir {
		return "", fmt.Errorf("path traversal detected: %q escapes %q", resolved, absDir)
	}

	return resolved, nil
}
