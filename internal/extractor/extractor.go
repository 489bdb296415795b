// Package extractor wraps the go-ytdlp library boundary: structured metadata
// extraction and download-to-disk, as opposed to the raw subprocess paths in
// internal/runner. Library errors are deliberately not softened here; the
// caller decides how to surface them.
package extractor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lrstanley/go-ytdlp"
)

// Options carries the recognized extraction settings. The zero value means
// "tool defaults"; empty strings disable the corresponding flag.
type Options struct {
	Quiet          bool   // suppress tool console output
	NoWarnings     bool   // suppress non-fatal diagnostics
	CookieFile     string // cookie file path, "" for none
	Format         string // format selector expression
	OutputTemplate string // output path template with %(id)s / %(ext)s tokens
}

// Format is one entry of an info dump's formats list.
type Format struct {
	Format     string `json:"format"`
	FormatID   string `json:"format_id"`
	Ext        string `json:"ext"`
	FormatNote string `json:"format_note"`
	Filesize   *int64 `json:"filesize"`
}

// Info is the subset of the tool's JSON info dump this application reads.
type Info struct {
	ID       string   `json:"id"`
	Ext      string   `json:"ext"`
	Title    string   `json:"title"`
	Duration float64  `json:"duration"`
	Formats  []Format `json:"formats"`
}

// Extractor is the in-process extraction boundary. Implemented by YtDlp;
// faked in tests.
type Extractor interface {
	// Info extracts metadata without downloading.
	Info(ctx context.Context, link string, opts Options) (*Info, error)

	// Download fetches media to local storage per the options' format
	// selector and output template.
	Download(ctx context.Context, link string, opts Options) error
}

// YtDlp drives the yt-dlp tool through go-ytdlp.
type YtDlp struct{}

// New returns the default extractor.
func New() *YtDlp {
	return &YtDlp{}
}

func (y *YtDlp) command(opts Options) *ytdlp.Command {
	cmd := ytdlp.New()
	if opts.Quiet {
		cmd = cmd.Quiet()
	}
	if opts.NoWarnings {
		cmd = cmd.NoWarnings()
	}
	if opts.CookieFile != "" {
		cmd = cmd.Cookies(opts.CookieFile)
	}
	if opts.Format != "" {
		cmd = cmd.Format(opts.Format)
	}
	if opts.OutputTemplate != "" {
		cmd = cmd.Output(opts.OutputTemplate)
	}
	return cmd
}

// Info extracts the JSON info dump for link and decodes it. The shape is
// validated explicitly: a dump without an ID is rejected rather than letting
// empty fields propagate.
func (y *YtDlp) Info(ctx context.Context, link string, opts Options) (*Info, error) {
	res, err := y.command(opts).SkipDownload().DumpSingleJSON().Run(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("extracting info for %s: %w", link, err)
	}

	var info Info
	if err := json.Unmarshal([]byte(res.Stdout), &info); err != nil {
		return nil, fmt.Errorf("decoding info payload: %w", err)
	}
	if info.ID == "" {
		return nil, fmt.Errorf("info payload for %s is missing an id", link)
	}
	return &info, nil
}

// Download runs the tool in download mode.
func (y *YtDlp) Download(ctx context.Context, link string, opts Options) error {
	if _, err := y.command(opts).Run(ctx, link); err != nil {
		return fmt.Errorf("downloading %s: %w", link, err)
	}
	return nil
}
