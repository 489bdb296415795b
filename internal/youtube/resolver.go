// Package youtube resolves YouTube media references (links, IDs, search
// queries, playlists) and retrieves downloadable streams or files through
// the external extraction tool.
package youtube

import (
	"regexp"
	"strings"
)

const (
	// watchBase expands a bare video ID into a full watch URL.
	watchBase = "https://www.youtube.com/watch?v="
	// playlistBase expands a bare playlist ID.
	playlistBase = "https://youtube.com/playlist?list="
)

var (
	platformPattern = regexp.MustCompile(`(?:youtube\.com|youtu\.be)`)
	ansiPattern     = regexp.MustCompile(`\x1B(?:[@-Z\\-_]|\[[0-?]*[ -/]*[@-~])`)
)

// Normalize turns a raw link or bare video ID into a canonical watch link.
// Everything from the first "&" on is dropped: those are tracking or playlist
// parameters the extraction tool must not see.
func Normalize(link string, isID bool) string {
	if isID {
		link = watchBase + link
	}
	if i := strings.Index(link, "&"); i >= 0 {
		link = link[:i]
	}
	return link
}

// NormalizePlaylist is Normalize for playlist references.
func NormalizePlaylist(link string, isID bool) string {
	if isID {
		link = playlistBase + link
	}
	if i := strings.Index(link, "&"); i >= 0 {
		link = link[:i]
	}
	return link
}

// Matches reports whether the link points at a known platform hostname.
// A bare ID is expanded first when flagged as one.
func Matches(link string, isID bool) bool {
	if isID {
		link = watchBase + link
	}
	return platformPattern.MatchString(link)
}

// StripANSI removes terminal escape sequences from tool output before it is
// echoed anywhere user-visible.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
