package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tunegrab/internal/cookies"
	"tunegrab/internal/extractor"
	"tunegrab/internal/httputil"
	"tunegrab/internal/media"
	"tunegrab/internal/runner"
)

// Format selectors for the supported operations. Best-effort 720p/1280w caps
// keep files chat-uploadable.
const (
	streamFormat = "best[height<=?720][width<=?1280]"
	audioFormat  = "bestaudio/best"
	videoFormat  = "(bestvideo[height<=?720][width<=?1280][ext=mp4])+(bestaudio[ext=m4a])"
)

// Options configures a Client.
type Options struct {
	Tool           string        // extraction tool binary, e.g. "yt-dlp"
	DownloadDir    string        // downloaded media target directory
	DownloadVideos bool          // video mode always downloads instead of trying a direct stream first
	Workers        int           // bounded worker count for tool executions
	Timeout        time.Duration // per-execution deadline
}

// trackSearcher resolves a link or free-text query to first-result metadata.
type trackSearcher interface {
	Search(query string) (*media.Track, error)
}

// DownloadRequest describes one download operation.
type DownloadRequest struct {
	Link  string
	Mode  media.DownloadMode
	Title string // required for the song modes, which produce title-keyed paths
}

// Client is the extraction facade: it builds tool invocations, attaches a
// cookie file from the rotating pool, executes them on the bounded worker
// pool, and interprets the classified results.
type Client struct {
	cookies  *cookies.Pool
	runner   *runner.Runner
	pool     *runner.Pool
	ext      extractor.Extractor
	searcher trackSearcher

	tool           string
	downloadDir    string
	downloadVideos bool
}

// New creates a client. The cookie pool is injected so callers control where
// artifact state lives.
func New(opts Options, pool *cookies.Pool) *Client {
	tool := opts.Tool
	if tool == "" {
		tool = "yt-dlp"
	}
	dir := opts.DownloadDir
	if dir == "" {
		dir = "downloads"
	}

	return &Client{
		cookies:        pool,
		runner:         runner.New(opts.Timeout),
		pool:           runner.NewPool(opts.Workers),
		ext:            extractor.New(),
		searcher:       NewSearcher(),
		tool:           tool,
		downloadDir:    dir,
		downloadVideos: opts.DownloadVideos,
	}
}

// Close drains the worker pool.
func (c *Client) Close() {
	c.pool.Close()
}

// withCookies prepends the cookie flag pair when the pool yields a file.
// The flag sits immediately after the program name on the final invocation.
func (c *Client) withCookies(args []string) []string {
	if cookie := c.cookies.Select(); cookie != "" {
		return append([]string{"--cookies", cookie}, args...)
	}
	return args
}

// run executes an argument-vector invocation on the worker pool.
func (c *Client) run(ctx context.Context, args []string) (runner.Result, error) {
	var res runner.Result
	if err := c.pool.Do(ctx, func() {
		res = c.runner.Run(ctx, c.tool, args...)
	}); err != nil {
		return runner.Result{}, err
	}
	return res, nil
}

// FileSize probes the total declared byte size of all formats of link.
// Any tool failure or malformed payload is an "unknown size" error the
// caller treats as proceed-with-caution, never as fatal.
func (c *Client) FileSize(ctx context.Context, link string) (int64, error) {
	res, err := c.run(ctx, c.withCookies([]string{"-J", link}))
	if err != nil {
		return 0, err
	}
	switch res.Status {
	case runner.StatusError:
		return 0, fmt.Errorf("size probe failed: %s", StripANSI(res.Stderr))
	case runner.StatusEmpty:
		return 0, errors.New("size probe produced no output")
	}

	var info struct {
		Formats []struct {
			Filesize *int64 `json:"filesize"`
		} `json:"formats"`
	}
	if err := json.Unmarshal([]byte(res.Output), &info); err != nil {
		return 0, fmt.Errorf("decoding size probe payload: %w", err)
	}

	var total int64
	for _, f := range info.Formats {
		if f.Filesize != nil {
			total += *f.Filesize
		}
	}
	return total, nil
}

// StreamURL resolves a direct, time-limited stream URL for link, capped at
// 720p/1280w. The first stdout line is the playable URL; anything else comes
// back as an error carrying the tool's diagnostic text.
func (c *Client) StreamURL(ctx context.Context, link string) (string, error) {
	res, err := c.run(ctx, c.withCookies([]string{"-g", "-f", streamFormat, link}))
	if err != nil {
		return "", err
	}
	if res.Status != runner.StatusSuccess {
		if res.Stderr != "" {
			return "", errors.New(StripANSI(res.Stderr))
		}
		return "", errors.New("no stream URL resolved")
	}
	line, _, _ := strings.Cut(res.Output, "\n")
	return strings.TrimSpace(line), nil
}

// Playlist enumerates up to limit member IDs of a playlist via the tool's
// flat-playlist mode. This is the one shell-string invocation: the command
// line is composed human-readable with interpolated flags. Failures degrade
// to an empty list, never an error.
func (c *Client) Playlist(ctx context.Context, link string, limit int) []string {
	cookieArg := ""
	if cookie := c.cookies.Select(); cookie != "" {
		cookieArg = "--cookies " + cookie
	}
	cmdline := fmt.Sprintf("%s -i --get-id --flat-playlist %s --playlist-end %d --skip-download %s",
		c.tool, cookieArg, limit, link)

	var res runner.Result
	if err := c.pool.Do(ctx, func() {
		res = c.runner.RunShell(ctx, cmdline)
	}); err != nil {
		return nil
	}
	if res.Status != runner.StatusSuccess {
		return nil
	}
	return parsePlaylistIDs(res.Output)
}

// parsePlaylistIDs splits tool output into IDs, dropping blank and
// whitespace-only lines.
func parsePlaylistIDs(out string) []string {
	var ids []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			ids = append(ids, line)
		}
	}
	return ids
}

// Formats lists the downloadable format variants of link through the
// extraction-library boundary. Adaptive/split-stream ("dash") variants are
// filtered out; extraction errors propagate to the caller.
func (c *Client) Formats(ctx context.Context, link string) ([]media.Format, error) {
	opts := extractor.Options{
		Quiet:      true,
		CookieFile: c.cookies.Select(),
	}

	var info *extractor.Info
	var extractErr error
	if err := c.pool.Do(ctx, func() {
		info, extractErr = c.ext.Info(ctx, link, opts)
	}); err != nil {
		return nil, err
	}
	if extractErr != nil {
		return nil, extractErr
	}

	var formats []media.Format
	for _, f := range info.Formats {
		if f.Format == "" || strings.Contains(strings.ToLower(f.Format), "dash") {
			continue
		}
		var size int64
		if f.Filesize != nil {
			size = *f.Filesize
		}
		formats = append(formats, media.Format{
			Label:    f.Format,
			ID:       f.FormatID,
			Ext:      f.Ext,
			Note:     f.FormatNote,
			Filesize: size,
			Link:     link,
		})
	}
	return formats, nil
}

// Download resolves or downloads media for req and returns the result path
// or URL, plus whether it is a local file (true) or a remote stream URL
// (false).
//
// Song modes download keyed by video ID but return a title-templated path
// unconditionally; the caller is responsible for verifying the file
// materialized. Video mode tries a direct stream first unless configured to
// always download, and downloads only when resolution yields nothing.
func (c *Client) Download(ctx context.Context, req DownloadRequest) (string, bool, error) {
	switch req.Mode {
	case media.ModeSongVideo:
		path, err := c.titlePath(req.Title, ".mp4")
		if err != nil {
			return "", false, err
		}
		if _, err := c.downloadMedia(ctx, req.Link, videoFormat); err != nil {
			return "", false, err
		}
		return path, true, nil

	case media.ModeSongAudio:
		path, err := c.titlePath(req.Title, ".mp3")
		if err != nil {
			return "", false, err
		}
		if _, err := c.downloadMedia(ctx, req.Link, audioFormat); err != nil {
			return "", false, err
		}
		return path, true, nil

	case media.ModeVideo:
		if !c.downloadVideos {
			if url, err := c.StreamURL(ctx, req.Link); err == nil && url != "" {
				return url, false, nil
			}
		}
		path, err := c.downloadMedia(ctx, req.Link, videoFormat)
		return path, true, err

	default:
		path, err := c.downloadMedia(ctx, req.Link, audioFormat)
		return path, true, err
	}
}

// titlePath builds the title-templated target for song modes. Titles come
// from page metadata, so the result is confined to the download directory.
func (c *Client) titlePath(title, ext string) (string, error) {
	return httputil.SafeDownloadPath(c.downloadDir, httputil.SanitizeFilename(title)+ext)
}

// downloadMedia extracts info for link, skips the download when the
// ID-keyed target already exists, and otherwise fetches it. Two concurrent
// downloads of the same ID may race on the existence check and both write
// the target; the writes are to the same content so the race is harmless.
func (c *Client) downloadMedia(ctx context.Context, link, format string) (string, error) {
	opts := extractor.Options{
		Quiet:          true,
		NoWarnings:     true,
		CookieFile:     c.cookies.Select(),
		Format:         format,
		OutputTemplate: filepath.Join(c.downloadDir, "%(id)s.%(ext)s"),
	}

	var path string
	var extractErr error
	if err := c.pool.Do(ctx, func() {
		if err := os.MkdirAll(c.downloadDir, 0o755); err != nil {
			extractErr = fmt.Errorf("creating download directory: %w", err)
			return
		}

		info, err := c.ext.Info(ctx, link, opts)
		if err != nil {
			extractErr = err
			return
		}

		path = filepath.Join(c.downloadDir, info.ID+"."+info.Ext)
		if _, err := os.Stat(path); err == nil {
			return // already on disk
		}
		extractErr = c.ext.Download(ctx, link, opts)
	}); err != nil {
		return "", err
	}
	if extractErr != nil {
		return "", extractErr
	}
	return path, nil
}

// Details searches for link (or any query string) and returns the metadata
// bundle of the first result.
func (c *Client) Details(link string) (*media.Track, error) {
	return c.searcher.Search(link)
}

// Title returns the first-result title for link.
func (c *Client) Title(link string) (string, error) {
	track, err := c.Details(link)
	if err != nil {
		return "", err
	}
	return track.Title, nil
}

// Duration returns the first-result display duration for link.
func (c *Client) Duration(link string) (string, error) {
	track, err := c.Details(link)
	if err != nil {
		return "", err
	}
	return track.Duration, nil
}

// Thumbnail returns the first-result thumbnail URL for link.
func (c *Client) Thumbnail(link string) (string, error) {
	track, err := c.Details(link)
	if err != nil {
		return "", err
	}
	return track.Thumbnail, nil
}
