package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-pg-geom/internal/postgres"
)

var columnsRefresh bool

var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "List the geometry and geography columns of a service",
	Long: `List geometric columns of the service. Results are cached in the config
file and reused until the column cache TTL runs out or --refresh is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := serviceName()
		if name == "" {
			return fmt.Errorf("no service given; use --service or set an active service")
		}

		if columnsRefresh || !cfg.IsColumnCacheValid(name) {
			db, _, err := postgres.OpenService(name)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(commandContext(cmd), 30*time.Second)
			defer cancel()

			if version, err := postgres.ServerVersion(ctx, db); err == nil {
				log.Debug().Str("service", name).Str("version", version).Msg("connected")
			}
			cols, err := postgres.GeometryColumns(ctx, db)
			if err != nil {
				return fmt.Errorf("listing columns: %w", err)
			}
			cfg.CacheColumns(name, cols)
			if err := cfg.Save(); err != nil {
				log.Warn().Err(err).Msg("could not save column cache")
			}
		} else {
			log.Debug().Str("service", name).Msg("using cached columns")
		}

		cache := cfg.CachedColumns[name]
		if len(cache.Columns) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No geometric columns in %s\n", name)
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SCHEMA\tTABLE\tCOLUMN\tTYPE\tGEOMETRY\tSRID")
		for _, c := range cache.Columns {
			srid := "-"
			if c.SRID > 0 {
				srid = fmt.Sprintf("%d", c.SRID)
			}
			geomType := c.GeomType
			if geomType == "" {
				geomType = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", c.Schema, c.Table, c.Column, c.DataType, geomType, srid)
		}
		return w.Flush()
	},
}

func init() {
	columnsCmd.Flags().BoolVar(&columnsRefresh, "refresh", false, "Ignore the cache and ask the database")
}
