package utils

import (
	"regexp"
	"strings"
)

var slugPattern = regexp.MustCompile("[^a-z0-9]+")

// Slugify turns a display name into a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = slugPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
