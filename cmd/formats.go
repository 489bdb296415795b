package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tunegrab/internal/media"
	"tunegrab/internal/ui"
	"tunegrab/internal/youtube"
)

var flagPick bool

var formatsCmd = &cobra.Command{
	Use:   "formats <link|id>",
	Short: "List downloadable formats (adaptive variants excluded)",
	Args:  cobra.ExactArgs(1),
	RunE:  formatsRun,
}

func init() {
	formatsCmd.Flags().BoolVarP(&flagPick, "pick", "p", false, "Pick a format interactively and print its ID")
}

func formatsRun(cmd *cobra.Command, args []string) error {
	link := youtube.Normalize(args[0], flagVideoID)

	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	formats, err := client.Formats(cmd.Context(), link)
	if err != nil {
		return fmt.Errorf("listing formats: %w", err)
	}
	if len(formats) == 0 {
		return fmt.Errorf("no formats available for %s", link)
	}

	if flagPick && ui.Interactive() {
		idx, err := ui.Select("Pick a format", formatLabels(formats))
		if err != nil {
			return err
		}
		fmt.Println(formats[idx].ID)
		return nil
	}

	for _, f := range formats {
		fmt.Println(formatLabel(f))
	}
	return nil
}

func formatLabels(formats []media.Format) []string {
	labels := make([]string, len(formats))
	for i, f := range formats {
		labels[i] = formatLabel(f)
	}
	return labels
}

func formatLabel(f media.Format) string {
	label := fmt.Sprintf("%s  [%s]", f.Label, f.Ext)
	if f.Filesize > 0 {
		label += fmt.Sprintf("  %.2f MiB", float64(f.Filesize)/(1024*1024))
	}
	return label
}
