package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tunegrab/internal/youtube"
)

var flagPlaylistLimit int

var playlistCmd = &cobra.Command{
	Use:   "playlist <link|id>",
	Short: "Enumerate the video IDs of a playlist",
	Args:  cobra.ExactArgs(1),
	RunE:  playlistRun,
}

func init() {
	playlistCmd.Flags().IntVarP(&flagPlaylistLimit, "limit", "n", 0, "Maximum entries to list (default from config)")
}

func playlistRun(cmd *cobra.Command, args []string) error {
	link := youtube.NormalizePlaylist(args[0], flagVideoID)

	limit := flagPlaylistLimit
	if limit <= 0 || limit > cfg.PlaylistLimit {
		limit = cfg.PlaylistLimit
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	ids := client.Playlist(cmd.Context(), link, limit)
	if len(ids) == 0 {
		debugf("playlist enumeration yielded nothing for %s", link)
		return nil
	}

	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}
