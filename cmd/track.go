package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tunegrab/internal/youtube"
)

var flagTrackJSON bool

var trackCmd = &cobra.Command{
	Use:   "track <link|id|query...>",
	Short: "Look up title, duration, and thumbnail for a link or search query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  trackRun,
}

func init() {
	trackCmd.Flags().BoolVarP(&flagTrackJSON, "json", "j", false, "Output metadata as JSON")
}

func trackRun(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	if flagVideoID || youtube.Matches(query, false) {
		query = youtube.Normalize(query, flagVideoID)
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	track, err := client.Details(query)
	if err != nil {
		return fmt.Errorf("looking up %q: %w", query, err)
	}

	if flagTrackJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(track)
	}

	fmt.Printf("Title:     %s\n", track.Title)
	if track.Duration != "" {
		fmt.Printf("Duration:  %s (%d seconds)\n", track.Duration, track.Seconds)
	} else {
		fmt.Println("Duration:  live")
	}
	fmt.Printf("Thumbnail: %s\n", track.Thumbnail)
	fmt.Printf("Link:      %s\n", track.Link)
	return nil
}
