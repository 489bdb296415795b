package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tunegrab/internal/config"
	"tunegrab/internal/ledger"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently downloaded media",
	Args:  cobra.NoArgs,
	RunE:  historyRun,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "Entries to show")
}

func historyRun(cmd *cobra.Command, args []string) error {
	path, err := config.LedgerPath()
	if err != nil {
		return err
	}

	l, err := ledger.Open(path)
	if err != nil {
		return fmt.Errorf("opening download ledger: %w", err)
	}
	defer l.Close()

	entries, err := l.Recent(flagHistoryLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no downloads recorded")
		return nil
	}

	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = e.VideoID
		}
		fmt.Printf("%s  %-9s  %s  (%s)\n", e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Mode, title, e.Path)
	}
	return nil
}
