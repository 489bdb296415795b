package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tunegrab/internal/youtube"
)

var probeCmd = &cobra.Command{
	Use:   "probe <link|id>",
	Short: "Probe the total declared download size of a video",
	Args:  cobra.ExactArgs(1),
	RunE:  probeRun,
}

func probeRun(cmd *cobra.Command, args []string) error {
	link := youtube.Normalize(args[0], flagVideoID)

	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	size, err := client.FileSize(cmd.Context(), link)
	if err != nil {
		// A failed probe means "size unknown, proceed with caution",
		// never a hard stop.
		debugf("size probe failed: %v", err)
		fmt.Println("size unknown")
		return nil
	}

	fmt.Printf("%d bytes (%.2f MiB)\n", size, float64(size)/(1024*1024))
	return nil
}
