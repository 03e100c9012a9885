package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-pg-geom/internal/config"
	"github.com/kartoza/kartoza-pg-geom/internal/postgres"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show application status",
	Long:  `Show the active service, settings, cached geometry columns and editor history.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		path, _ := config.ConfigPath()

		active := cfg.ActiveService
		if active == "" {
			active = "(none)"
		}

		fmt.Fprintf(out, "Kartoza PG Geom Status\n")
		fmt.Fprintf(out, "======================\n")
		fmt.Fprintf(out, "Config File: %s\n", path)
		fmt.Fprintf(out, "Active Service: %s\n", active)
		if services, err := postgres.ParsePGServiceFile(); err == nil {
			fmt.Fprintf(out, "Services: %d in %s\n", len(services), postgres.GetPGServiceFilePath())
		} else {
			fmt.Fprintf(out, "Services: %v\n", err)
		}
		fmt.Fprintf(out, "Default SRID: %d\n", cfg.Settings.DefaultSRID)
		fmt.Fprintf(out, "Row Limit: %d\n", cfg.Settings.RowLimit)
		fmt.Fprintf(out, "Preview Size: %dx%d\n", cfg.Settings.PreviewWidth, cfg.Settings.PreviewHeight)
		fmt.Fprintf(out, "Log Level: %s\n", cfg.Settings.LogLevel)
		fmt.Fprintf(out, "Cached Column Sets: %d\n", len(cfg.CachedColumns))
		fmt.Fprintf(out, "History: %d values\n", len(cfg.History))
	},
}
