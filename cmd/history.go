package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-pg-geom/internal/config"
	"github.com/kartoza/kartoza-pg-geom/internal/render"
)

var (
	historyClear bool
	historyShow  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List values committed from the editor",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if historyClear {
			cfg.History = []config.HistoryEntry{}
			if err := cfg.Save(); err != nil {
				return err
			}
			fmt.Fprintln(out, "History cleared")
			return nil
		}

		if len(cfg.History) == 0 {
			fmt.Fprintln(out, "No history yet")
			return nil
		}

		if historyShow > 0 {
			if historyShow > len(cfg.History) {
				return fmt.Errorf("no history entry %d", historyShow)
			}
			entry := cfg.History[historyShow-1]
			b64, err := config.LoadPreviewImage(entry.PreviewImageID)
			if err != nil || b64 == "" {
				return fmt.Errorf("no cached preview for entry %d", historyShow)
			}
			fmt.Fprintln(out, entry.Input)
			fmt.Fprintln(out, render.ToKittyGraphics(b64))
			return nil
		}

		for i, h := range cfg.History {
			fmt.Fprintf(out, "%3d  %s  [%s]  %s\n", i+1, h.Timestamp.Format("2006-01-02 15:04"), h.Mode, h.Input)
			if h.WKT != "" && h.WKT != h.Input {
				fmt.Fprintf(out, "     %s\n", h.WKT)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Forget all entries")
	historyCmd.Flags().IntVar(&historyShow, "show", 0, "Show the cached preview of entry N")
}
