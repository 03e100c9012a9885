package cmd

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-pg-geom/internal/config"
	"github.com/kartoza/kartoza-pg-geom/internal/render"
)

var (
	previewOut   string
	previewCache bool
)

var previewCmd = &cobra.Command{
	Use:   "preview <value>...",
	Short: "Draw geometry values as a PNG",
	Long: `Draw WKT, constructor calls or WKB hex values into one PNG image. The
image is shown inline with the Kitty graphics protocol unless --out is given.
Values that cannot be parsed are skipped.`,
	Example: `  kartoza-pg-geom preview 'POLYGON((0 0, 4 0, 4 4, 0 0))' 'POINT(1 1)'
  kartoza-pg-geom preview --out roads.png 0x0102000000...`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := render.NewRenderer(cfg.Settings.PreviewWidth, cfg.Settings.PreviewHeight)
		png, skipped, err := r.RenderValues(args)
		if err != nil {
			return err
		}
		if skipped > 0 {
			log.Warn().Int("skipped", skipped).Msg("some values could not be parsed")
		}
		b64 := base64.StdEncoding.EncodeToString(png)

		if previewCache {
			id, err := config.SavePreviewImage(b64)
			if err != nil {
				return fmt.Errorf("caching preview: %w", err)
			}
			path, _ := config.PreviewImagePath(id)
			fmt.Fprintln(cmd.ErrOrStderr(), "cached as", path)
		}

		if previewOut != "" {
			if err := os.WriteFile(previewOut, png, 0644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", previewOut, len(png))
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), render.ToKittyGraphics(b64))
		return nil
	},
}

func init() {
	previewCmd.Flags().StringVarP(&previewOut, "out", "o", "", "Write the PNG to this file")
	previewCmd.Flags().BoolVar(&previewCache, "cache", false, "Also keep the image in the preview cache")
}
