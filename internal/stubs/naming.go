package stubs

import (
	"fmt"
	"strings"
)

// invalidNameChars are characters not allowed in a file name on any supported
// filesystem
const invalidNameChars = `/\:*?"<>|`

// EpisodeBaseName builds the canonical stub file name (without extension) for
// an episode: "S01E02 - Title"
func EpisodeBaseName(season, episode int, title string) string {
	return fmt.Sprintf("S%02dE%02d - %s", season, episode, SanitizeName(title))
}

// SanitizeName makes a title usable as a part of a file name: every invalid
// character becomes an underscore, trailing periods and spaces are trimmed.
// Falls back to "Episode" when nothing usable remains.
func SanitizeName(title string) string {
	sanitized := strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(invalidNameChars, r) {
			return '_'
		}
		return r
	}, title)
	sanitized = strings.TrimRight(sanitized, ". ")
	sanitized = strings.TrimSpace(sanitized)

	if sanitized == "" {
		return "Episode"
	}
	return sanitized
}
