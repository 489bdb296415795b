package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tunegrab/internal/config"
	"tunegrab/internal/ledger"
	"tunegrab/internal/media"
	"tunegrab/internal/youtube"
)

var (
	flagVideo     bool
	flagSongAudio bool
	flagSongVideo bool
	flagTitle     string
)

var downloadCmd = &cobra.Command{
	Use:   "download <link|id>",
	Short: "Download media (audio by default) to the downloads directory",
	Args:  cobra.ExactArgs(1),
	RunE:  downloadRun,
}

func init() {
	downloadCmd.Flags().BoolVarP(&flagVideo, "video", "v", false, "Download video instead of audio")
	downloadCmd.Flags().BoolVar(&flagSongAudio, "song-audio", false, "Song mode: return a title-keyed .mp3 path")
	downloadCmd.Flags().BoolVar(&flagSongVideo, "song-video", false, "Song mode: return a title-keyed .mp4 path")
	downloadCmd.Flags().StringVarP(&flagTitle, "title", "t", "", "Title for the song modes' output path")
}

func downloadRun(cmd *cobra.Command, args []string) error {
	link := youtube.Normalize(args[0], flagVideoID)

	mode := media.ModeAudio
	switch {
	case flagSongVideo:
		mode = media.ModeSongVideo
	case flagSongAudio:
		mode = media.ModeSongAudio
	case flagVideo:
		mode = media.ModeVideo
	}

	title := flagTitle
	if (mode == media.ModeSongAudio || mode == media.ModeSongVideo) && title == "" {
		return fmt.Errorf("song modes require --title")
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	result, direct, err := client.Download(cmd.Context(), youtube.DownloadRequest{
		Link:  link,
		Mode:  mode,
		Title: title,
	})
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	if !direct {
		// Remote stream URL, nothing landed on disk.
		fmt.Println(result)
		return nil
	}

	fmt.Fprintf(os.Stderr, "Downloaded: %s\n", result)
	fmt.Println(result)
	recordDownload(client, link, title, mode, result)
	return nil
}

// recordDownload appends to the download ledger, best-effort.
func recordDownload(client *youtube.Client, link, title string, mode media.DownloadMode, path string) {
	ledgerPath, err := config.LedgerPath()
	if err != nil {
		debugf("resolving ledger path: %v", err)
		return
	}
	l, err := ledger.Open(ledgerPath)
	if err != nil {
		debugf("opening ledger: %v", err)
		return
	}
	defer l.Close()

	entry := ledger.Entry{Title: title, Mode: mode.String(), Path: path}
	if track, err := client.Details(link); err == nil {
		entry.VideoID = track.ID
		if entry.Title == "" {
			entry.Title = track.Title
		}
	}
	if err := l.Record(entry); err != nil {
		debugf("recording download: %v", err)
	}
}
