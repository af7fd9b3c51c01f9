package checker

import "strings"

// JoinURL joins a base URL and an endpoint path with exactly one slash,
// regardless of trailing slashes on the base or leading slashes on the path.
// An empty path returns the base unchanged (minus trailing slashes).
func JoinURL(baseURL, path string) string {
	base := strings.TrimRight(baseURL, "/")
	suffix := strings.TrimLeft(path, "/")
	if suffix == "" {
		return base
	}
	return base + "/" + suffix
}
