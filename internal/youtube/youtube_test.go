package youtube

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"tunegrab/internal/cookies"
	"tunegrab/internal/extractor"
	"tunegrab/internal/media"
)

// writeTool writes an executable shell script standing in for the
// extraction tool.
func writeTool(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-yt-dlp")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("writing fake tool: %v", err)
	}
	return path
}

func newTestClient(t *testing.T, tool string) *Client {
	t.Helper()
	pool, err := cookies.New(filepath.Join(t.TempDir(), "cookies"))
	if err != nil {
		t.Fatalf("cookie pool: %v", err)
	}
	c := New(Options{
		Tool:        tool,
		DownloadDir: filepath.Join(t.TempDir(), "downloads"),
		Workers:     2,
		Timeout:     30 * time.Second,
	}, pool)
	t.Cleanup(c.Close)
	return c
}

type fakeExtractor struct {
	mu          sync.Mutex
	info        *extractor.Info
	infoErr     error
	downloadErr error
	downloads   int
	lastOpts    extractor.Options
}

func (f *fakeExtractor) Info(ctx context.Context, link string, opts extractor.Options) (*extractor.Info, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastOpts = opts
	return f.info, f.infoErr
}

func (f *fakeExtractor) Download(ctx context.Context, link string, opts extractor.Options) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloads++
	return f.downloadErr
}

func (f *fakeExtractor) downloadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.downloads
}

func TestFileSize(t *testing.T) {
	tool := writeTool(t, `printf '{"formats":[{"filesize":100},{"filesize":null},{"filesize":50}]}'`)
	c := newTestClient(t, tool)

	size, err := c.FileSize(context.Background(), "https://youtu.be/abc")
	if err != nil {
		t.Fatalf("FileSize: %v", err)
	}
	if size != 150 {
		t.Errorf("size = %d, want 150 (missing sizes count as 0)", size)
	}
}

func TestFileSizeToolError(t *testing.T) {
	tool := writeTool(t, `echo 'ERROR: video unavailable' >&2; exit 1`)
	c := newTestClient(t, tool)

	if _, err := c.FileSize(context.Background(), "https://youtu.be/abc"); err == nil {
		t.Fatal("expected error for non-zero exit")
	}
}

func TestFileSizeMalformedPayload(t *testing.T) {
	tool := writeTool(t, `printf 'not json at all'`)
	c := newTestClient(t, tool)

	if _, err := c.FileSize(context.Background(), "https://youtu.be/abc"); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestStreamURL(t *testing.T) {
	tool := writeTool(t, `printf 'https://cdn.example.com/stream.m3u8\nhttps://cdn.example.com/audio\n'`)
	c := newTestClient(t, tool)

	url, err := c.StreamURL(context.Background(), "https://youtu.be/abc")
	if err != nil {
		t.Fatalf("StreamURL: %v", err)
	}
	if url != "https://cdn.example.com/stream.m3u8" {
		t.Errorf("url = %q, want first stdout line", url)
	}
}

func TestStreamURLSurfacesStderr(t *testing.T) {
	tool := writeTool(t, `echo 'ERROR: sign in to confirm' >&2; exit 1`)
	c := newTestClient(t, tool)

	_, err := c.StreamURL(context.Background(), "https://youtu.be/abc")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "sign in to confirm") {
		t.Errorf("error = %v, want tool diagnostic surfaced", err)
	}
}

func TestCookieFlagInserted(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args.txt")
	tool := writeTool(t, `printf '%s\n' "$@" > `+argsFile+`; printf 'https://cdn.example.com/s\n'`)
	c := newTestClient(t, tool)

	cookie := filepath.Join(c.cookies.Dir(), "session1.txt")
	if err := os.WriteFile(cookie, []byte("# cookies\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := c.StreamURL(context.Background(), "https://youtu.be/abc"); err != nil {
		t.Fatalf("StreamURL: %v", err)
	}

	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("reading recorded args: %v", err)
	}
	args := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(args) < 2 || args[0] != "--cookies" || args[1] != cookie {
		t.Errorf("args = %v, want --cookies %s first", args, cookie)
	}
}

func TestPlaylist(t *testing.T) {
	tool := writeTool(t, `printf 'id1\n\nid2\n  \nid3\n'`)
	c := newTestClient(t, tool)

	ids := c.Playlist(context.Background(), "https://youtube.com/playlist?list=PL1", 10)
	want := []string{"id1", "id2", "id3"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestPlaylistDegradesToEmpty(t *testing.T) {
	tool := writeTool(t, `echo 'ERROR: playlist does not exist' >&2; exit 1`)
	c := newTestClient(t, tool)

	if ids := c.Playlist(context.Background(), "https://youtube.com/playlist?list=PL1", 10); len(ids) != 0 {
		t.Errorf("ids = %v, want empty on tool failure", ids)
	}
}

func TestPlaylistBenignStderr(t *testing.T) {
	tool := writeTool(t, `printf 'id1\nid2\n'; echo 'WARNING: Unavailable videos are hidden' >&2`)
	c := newTestClient(t, tool)

	ids := c.Playlist(context.Background(), "https://youtube.com/playlist?list=PL1", 10)
	if len(ids) != 2 {
		t.Errorf("ids = %v, want 2 entries despite benign stderr", ids)
	}
}

func TestPlaylistOtherStderrFails(t *testing.T) {
	tool := writeTool(t, `printf 'id1\n'; echo 'some other warning' >&2`)
	c := newTestClient(t, tool)

	if ids := c.Playlist(context.Background(), "https://youtube.com/playlist?list=PL1", 10); len(ids) != 0 {
		t.Errorf("ids = %v, want empty when stderr is not allowlisted", ids)
	}
}

func TestParsePlaylistIDs(t *testing.T) {
	got := parsePlaylistIDs("id1\n\nid2\n  \nid3")
	if len(got) != 3 || got[0] != "id1" || got[1] != "id2" || got[2] != "id3" {
		t.Errorf("parsePlaylistIDs = %v, want [id1 id2 id3]", got)
	}
	if got := parsePlaylistIDs(""); got != nil {
		t.Errorf("parsePlaylistIDs(empty) = %v, want nil", got)
	}
}

func TestFormatsFiltersAdaptive(t *testing.T) {
	size := int64(4096)
	fake := &fakeExtractor{info: &extractor.Info{
		ID:  "abc",
		Ext: "mp4",
		Formats: []extractor.Format{
			{Format: "137-DASH video", FormatID: "137"},
			{Format: "18 - 640x360 (360p)", FormatID: "18", Ext: "mp4", FormatNote: "360p", Filesize: &size},
			{Format: ""},
		},
	}}
	c := newTestClient(t, "unused")
	c.ext = fake

	cookie := filepath.Join(c.cookies.Dir(), "session1.txt")
	if err := os.WriteFile(cookie, []byte("# cookies\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	formats, err := c.Formats(context.Background(), "https://youtu.be/abc")
	if err != nil {
		t.Fatalf("Formats: %v", err)
	}
	if fake.lastOpts.CookieFile != cookie {
		t.Errorf("cookie file = %q, want %q from the pool", fake.lastOpts.CookieFile, cookie)
	}
	if len(formats) != 1 {
		t.Fatalf("formats = %v, want only the non-dash entry", formats)
	}
	f := formats[0]
	if f.ID != "18" || f.Ext != "mp4" || f.Note != "360p" || f.Filesize != 4096 {
		t.Errorf("format = %+v, fields not mapped", f)
	}
	if f.Link != "https://youtu.be/abc" {
		t.Errorf("format link = %q, want the source link", f.Link)
	}
}

func TestFormatsPropagatesError(t *testing.T) {
	fake := &fakeExtractor{infoErr: os.ErrDeadlineExceeded}
	c := newTestClient(t, "unused")
	c.ext = fake

	if _, err := c.Formats(context.Background(), "https://youtu.be/abc"); err == nil {
		t.Fatal("expected extraction error to propagate")
	}
}

func TestDownloadAudioSkipsExisting(t *testing.T) {
	fake := &fakeExtractor{info: &extractor.Info{ID: "abc", Ext: "m4a"}}
	c := newTestClient(t, "unused")
	c.ext = fake

	existing := filepath.Join(c.downloadDir, "abc.m4a")
	if err := os.MkdirAll(c.downloadDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(existing, []byte("media"), 0o644); err != nil {
		t.Fatal(err)
	}

	path, direct, err := c.Download(context.Background(), DownloadRequest{Link: "https://youtu.be/abc"})
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if path != existing {
		t.Errorf("path = %q, want existing file %q", path, existing)
	}
	if !direct {
		t.Error("direct = false, want true for a local file")
	}
	if n := fake.downloadCount(); n != 0 {
		t.Errorf("download ran %d times, want skip for an existing file", n)
	}
}

func TestDownloadAudioFetches(t *testing.T) {
	fake := &fakeExtractor{info: &extractor.Info{ID: "abc", Ext: "m4a"}}
	c := newTestClient(t, "unused")
	c.ext = fake

	path, direct, err := c.Download(context.Background(), DownloadRequest{Link: "https://youtu.be/abc"})
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if want := filepath.Join(c.downloadDir, "abc.m4a"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if !direct {
		t.Error("direct = false, want true")
	}
	if n := fake.downloadCount(); n != 1 {
		t.Errorf("download ran %d times, want 1", n)
	}
	if fake.lastOpts.Format != audioFormat {
		t.Errorf("format = %q, want %q", fake.lastOpts.Format, audioFormat)
	}
}

func TestDownloadSongModesReturnTitlePaths(t *testing.T) {
	fake := &fakeExtractor{info: &extractor.Info{ID: "abc", Ext: "mp4"}}
	c := newTestClient(t, "unused")
	c.ext = fake

	path, direct, err := c.Download(context.Background(), DownloadRequest{
		Link:  "https://youtu.be/abc",
		Mode:  media.ModeSongVideo,
		Title: "My Song?",
	})
	if err != nil {
		t.Fatalf("Download songvideo: %v", err)
	}
	if want := filepath.Join(c.downloadDir, "My Song_.mp4"); path != want {
		t.Errorf("path = %q, want title-templated %q", path, want)
	}
	if !direct {
		t.Error("direct = false, want true")
	}

	path, _, err = c.Download(context.Background(), DownloadRequest{
		Link:  "https://youtu.be/abc",
		Mode:  media.ModeSongAudio,
		Title: "My Song?",
	})
	if err != nil {
		t.Fatalf("Download songaudio: %v", err)
	}
	if want := filepath.Join(c.downloadDir, "My Song_.mp3"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
}

func TestDownloadSongTitleConfinedToDownloadDir(t *testing.T) {
	fake := &fakeExtractor{info: &extractor.Info{ID: "abc", Ext: "mp4"}}
	c := newTestClient(t, "unused")
	c.ext = fake

	path, _, err := c.Download(context.Background(), DownloadRequest{
		Link:  "https://youtu.be/abc",
		Mode:  media.ModeSongAudio,
		Title: "../../evil",
	})
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if !strings.HasPrefix(path, c.downloadDir+string(filepath.Separator)) {
		t.Errorf("path = %q, escapes download dir %q", path, c.downloadDir)
	}
}

func TestDownloadVideoPrefersDirectStream(t *testing.T) {
	tool := writeTool(t, `printf 'https://cdn.example.com/direct.m3u8\n'`)
	fake := &fakeExtractor{info: &extractor.Info{ID: "abc", Ext: "mp4"}}
	c := newTestClient(t, tool)
	c.ext = fake

	path, direct, err := c.Download(context.Background(), DownloadRequest{
		Link: "https://youtu.be/abc",
		Mode: media.ModeVideo,
	})
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if path != "https://cdn.example.com/direct.m3u8" {
		t.Errorf("path = %q, want the resolved stream URL", path)
	}
	if direct {
		t.Error("direct = true, want false for a remote URL")
	}
	if n := fake.downloadCount(); n != 0 {
		t.Errorf("download ran %d times, want none", n)
	}
}

func TestDownloadVideoFallsBackToDownload(t *testing.T) {
	tool := writeTool(t, `exit 0`) // direct-stream resolve yields no stdout
	fake := &fakeExtractor{info: &extractor.Info{ID: "abc", Ext: "mp4"}}
	c := newTestClient(t, tool)
	c.ext = fake

	path, direct, err := c.Download(context.Background(), DownloadRequest{
		Link: "https://youtu.be/abc",
		Mode: media.ModeVideo,
	})
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if want := filepath.Join(c.downloadDir, "abc.mp4"); path != want {
		t.Errorf("path = %q, want downloaded file %q", path, want)
	}
	if !direct {
		t.Error("direct = false, want true")
	}
	if n := fake.downloadCount(); n != 1 {
		t.Errorf("download ran %d times, want 1", n)
	}
	if fake.lastOpts.Format != videoFormat {
		t.Errorf("format = %q, want %q", fake.lastOpts.Format, videoFormat)
	}
}

func TestDownloadVideoAlwaysDownloadFlag(t *testing.T) {
	tool := writeTool(t, `printf 'https://cdn.example.com/direct.m3u8\n'`)
	fake := &fakeExtractor{info: &extractor.Info{ID: "abc", Ext: "mp4"}}
	c := newTestClient(t, tool)
	c.ext = fake
	c.downloadVideos = true

	path, direct, err := c.Download(context.Background(), DownloadRequest{
		Link: "https://youtu.be/abc",
		Mode: media.ModeVideo,
	})
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if want := filepath.Join(c.downloadDir, "abc.mp4"); path != want {
		t.Errorf("path = %q, want downloaded file even though a stream resolves", path)
	}
	if !direct {
		t.Error("direct = false, want true")
	}
}

type fakeSearcher struct {
	track *media.Track
	err   error
}

func (f *fakeSearcher) Search(query string) (*media.Track, error) {
	return f.track, f.err
}

func TestDetailsAccessors(t *testing.T) {
	c := newTestClient(t, "unused")
	c.searcher = &fakeSearcher{track: &media.Track{
		ID:        "dQw4w9WgXcQ",
		Title:     "Never Gonna Give You Up",
		Duration:  "3:33",
		Thumbnail: "https://i.ytimg.com/vi/dQw4w9WgXcQ/default.jpg",
	}}

	track, err := c.Details("https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Details: %v", err)
	}
	if track.ID != "dQw4w9WgXcQ" {
		t.Errorf("id = %q, want dQw4w9WgXcQ", track.ID)
	}

	title, err := c.Title("https://youtu.be/dQw4w9WgXcQ")
	if err != nil || title != "Never Gonna Give You Up" {
		t.Errorf("Title = %q, %v", title, err)
	}
	duration, err := c.Duration("https://youtu.be/dQw4w9WgXcQ")
	if err != nil || duration != "3:33" {
		t.Errorf("Duration = %q, %v", duration, err)
	}
	thumb, err := c.Thumbnail("https://youtu.be/dQw4w9WgXcQ")
	if err != nil || thumb != "https://i.ytimg.com/vi/dQw4w9WgXcQ/default.jpg" {
		t.Errorf("Thumbnail = %q, %v", thumb, err)
	}
}

func TestAccessorsPropagateSearchError(t *testing.T) {
	c := newTestClient(t, "unused")
	c.searcher = &fakeSearcher{err: os.ErrDeadlineExceeded}

	if _, err := c.Title("whatever"); err == nil {
		t.Error("Title: expected search error to propagate")
	}
	if _, err := c.Duration("whatever"); err == nil {
		t.Error("Duration: expected search error to propagate")
	}
	if _, err := c.Thumbnail("whatever"); err == nil {
		t.Error("Thumbnail: expected search error to propagate")
	}
}

func TestDownloadPropagatesExtractionError(t *testing.T) {
	fake := &fakeExtractor{infoErr: os.ErrPermission}
	c := newTestClient(t, "unused")
	c.ext = fake

	if _, _, err := c.Download(context.Background(), DownloadRequest{Link: "https://youtu.be/abc"}); err == nil {
		t.Fatal("expected extraction error to propagate")
	}
}
