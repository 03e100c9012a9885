package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-pg-geom/internal/logger"
	"github.com/kartoza/kartoza-pg-geom/internal/postgres"
	"github.com/kartoza/kartoza-pg-geom/internal/render"
	"github.com/kartoza/kartoza-pg-geom/internal/spatial"
	"github.com/kartoza/kartoza-pg-geom/internal/tui"
)

var (
	queryLimit   int
	queryPreview bool
	queryTimeout time.Duration
)

var queryCmd = &cobra.Command{
	Use:   "query <sql>",
	Short: "Run a query and show geometry columns as WKT",
	Long: `Run a query against the service and print the rows as a table. WKB cells,
such as the output of ST_AsBinary, are decoded to WKT. With --preview the
geometry column is also drawn inline.`,
	Example: `  kartoza-pg-geom query -s gis 'SELECT id, ST_AsBinary(geom) AS geom FROM roads'`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := serviceName()
		if name == "" {
			return fmt.Errorf("no service given; use --service or set an active service")
		}
		db, _, err := postgres.OpenService(name)
		if err != nil {
			return err
		}
		defer db.Close()

		limit := queryLimit
		if !cmd.Flags().Changed("limit") {
			limit = cfg.Settings.RowLimit
		}

		ctx, cancel := context.WithTimeout(commandContext(cmd), queryTimeout)
		defer cancel()

		start := time.Now()
		f := spatial.NewValueFormatter(logger.Component(log, "formatter"))
		res, err := postgres.RunQuery(ctx, db, args[0], limit, f)
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}
		log.Debug().Str("service", name).Int("rows", len(res.Rows)).Dur("took", time.Since(start)).Msg("query finished")

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, tui.RenderTable(res, tui.TableOptions{}))

		if !queryPreview {
			return nil
		}
		col := previewColumn(res)
		if col < 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "no geometry column to preview")
			return nil
		}
		r := render.NewRenderer(cfg.Settings.PreviewWidth, cfg.Settings.PreviewHeight)
		img, err := r.KittyPreview(res.Column(col))
		if err != nil {
			return err
		}
		fmt.Fprintln(out, img)
		return nil
	},
}

// previewColumn prefers a column with a geometric type and falls back to
// guessing from names and the first row
func previewColumn(res *postgres.Result) int {
	if len(res.Spatial) > 0 {
		return res.Spatial[0]
	}
	var sample []string
	if len(res.Rows) > 0 {
		sample = res.Rows[0]
	}
	return render.DetectGeometryColumn(res.Columns, sample)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	queryCmd.Flags().IntVar(&queryLimit, "limit", 0, "Maximum rows to fetch (defaults to the configured row limit, 0 for all)")
	queryCmd.Flags().BoolVar(&queryPreview, "preview", false, "Draw the geometry column inline")
	queryCmd.Flags().DurationVar(&queryTimeout, "timeout", 30*time.Second, "Query timeout")
}
