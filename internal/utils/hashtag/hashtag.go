// Package hashtag extracts hashtags from free-text edit summaries.
package hashtag

import "regexp"

// A hashtag is a '#' followed by word characters, at least one of which
// is a letter. Purely numeric fragments like "#1" are section references,
// not tags.
var tagPattern = regexp.MustCompile(`#([0-9]*[\pL_][\pL0-9_]*)`)

// Extract returns the distinct hashtags found in text, in order of first
// appearance, without the leading '#'.
func Extract(text string) []string {
	matches := tagPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, dup := seen[m[1]]; dup {
			continue
		}
		seen[m[1]] = struct{}{}
		tags = append(tags, m[1])
	}
	return tags
}
