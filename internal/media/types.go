// Package media defines shared types for the tunegrab application.
package media

// Track is the metadata bundle produced by a search lookup.
type Track struct {
	ID        string // Platform-assigned video ID
	Title     string // Display title
	Duration  string // Display duration, e.g., "4:23" (empty for live)
	Seconds   int    // Duration in whole seconds, 0 when unknown
	Thumbnail string // Thumbnail URL with the query string stripped
	Link      string // Canonical watch URL
}

// Format describes one downloadable format variant of a video.
type Format struct {
	Label    string // Human-readable format line, e.g., "18 - 640x360 (360p)"
	ID       string // Tool format identifier
	Ext      string // Container extension
	Note     string // Quality note, e.g., "720p"
	Filesize int64  // Declared size in bytes, 0 when not reported
	Link     string // Source link the format belongs to
}

// DownloadMode selects the branch of the download state machine.
type DownloadMode int

const (
	// ModeAudio downloads best audio keyed by video ID (the default).
	ModeAudio DownloadMode = iota
	// ModeVideo downloads (or direct-resolves) best video+audio up to 720p.
	ModeVideo
	// ModeSongAudio downloads audio and returns a title-templated .mp3 path.
	ModeSongAudio
	// ModeSongVideo downloads video and returns a title-templated .mp4 path.
	ModeSongVideo
)

func (m DownloadMode) String() string {
	switch m {
	case ModeVideo:
		return "video"
	case ModeSongAudio:
		return "songaudio"
	case ModeSongVideo:
		return "songvideo"
	default:
		return "audio"
	}
}
