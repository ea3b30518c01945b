// Package ident derives stable identifiers for trigger items.
package ident

import (
	"strings"

	"github.com/google/uuid"
)

// StableID maps a canonical URL to a deterministic UUIDv5 in the URL
// namespace. The scheme is coerced to https first: upstream feeds
// sometimes hand out http entry IDs for the same resource, and the
// identifier must not fork on the scheme or callers would see duplicate
// items across polls.
func StableID(rawURL string) string {
	canonical := rawURL
	if strings.HasPrefix(canonical, "http:") {
		canonical = "https:" + canonical[len("http:"):]
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(canonical)).String()
}
