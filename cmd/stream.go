package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tunegrab/internal/youtube"
)

var streamCmd = &cobra.Command{
	Use:   "stream <link|id>",
	Short: "Resolve a direct stream URL (best format up to 720p)",
	Args:  cobra.ExactArgs(1),
	RunE:  streamRun,
}

func streamRun(cmd *cobra.Command, args []string) error {
	link := youtube.Normalize(args[0], flagVideoID)
	if !youtube.Matches(link, false) {
		return fmt.Errorf("%q is not a recognized platform link", args[0])
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	url, err := client.StreamURL(cmd.Context(), link)
	if err != nil {
		return fmt.Errorf("resolving stream: %w", err)
	}

	fmt.Println(url)
	return nil
}
