package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-pg-geom/internal/config"
	"github.com/kartoza/kartoza-pg-geom/internal/logger"
	"github.com/kartoza/kartoza-pg-geom/internal/postgres"
	"github.com/kartoza/kartoza-pg-geom/internal/render"
	"github.com/kartoza/kartoza-pg-geom/internal/spatial"
	"github.com/kartoza/kartoza-pg-geom/internal/tui"
)

var (
	appVersion = "dev"

	cfg *config.Config
	log zerolog.Logger

	logLevel string
	service  string

	editSRID   int
	editSQL    bool
	editTable  string
	editSchema string
	editColumn string
	editKey    string
	editID     string
)

// SetVersion sets the application version
func SetVersion(v string) {
	appVersion = v
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   config.AppName + " [value]",
	Short: "Geometry values for PostgreSQL: decode WKB, edit WKT, build constructor calls",
	Long: `Kartoza PG Geom - tools for geometry values in PostgreSQL.

Without a subcommand an interactive geometry field opens. It accepts bare
WKT or an ST_GeomFromText(...) call, toggles between the two with ctrl+t
and decodes pasted WKB hex. With --service, --table, --column, --key and
--id the committed value is written to that cell.

Built with love by Kartoza.`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runEditor,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error); overrides the config file")
	rootCmd.PersistentFlags().StringVarP(&service, "service", "s", "", "pg_service.conf service to use (defaults to the active service)")

	rootCmd.Flags().IntVar(&editSRID, "srid", 0, "SRID written into constructor calls (defaults to the configured SRID)")
	rootCmd.Flags().BoolVar(&editSQL, "sql", false, "Start in SQL function mode")
	rootCmd.Flags().StringVar(&editSchema, "schema", "", "Schema of the target table")
	rootCmd.Flags().StringVar(&editTable, "table", "", "Table holding the cell to edit")
	rootCmd.Flags().StringVar(&editColumn, "column", "", "Geometry column to edit")
	rootCmd.Flags().StringVar(&editKey, "key", "id", "Key column identifying the row")
	rootCmd.Flags().StringVar(&editID, "id", "", "Key value of the row to edit")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(formatCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(columnsCmd)
	rootCmd.AddCommand(servicesCmd)
	rootCmd.AddCommand(historyCmd)
}

// setup loads the config file and builds the logger for every command
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load config, using defaults: %v\n", err)
		loaded = config.DefaultConfig()
	}
	cfg = loaded

	level := cfg.Settings.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	log = logger.Build(logger.Config{
		Level:     level,
		Console:   cfg.Settings.LogConsole,
		Component: cmd.Name(),
	}, cmd.ErrOrStderr())
	return nil
}

// serviceName is --service, falling back to the active service
func serviceName() string {
	if service != "" {
		return service
	}
	return cfg.ActiveService
}

func runEditor(cmd *cobra.Command, args []string) error {
	srid := editSRID
	if srid == 0 {
		srid = cfg.Settings.DefaultSRID
	}

	opts := tui.EditorOptions{
		RawSQL: editSQL || cfg.Settings.StartInSQLMode,
		SRID:   srid,
		Log:    logger.Component(log, "editor"),
	}
	if len(args) == 1 {
		opts.Initial = args[0]
	}

	if editTable != "" || editColumn != "" || editID != "" {
		if editTable == "" || editColumn == "" || editID == "" {
			return fmt.Errorf("--table, --column and --id are needed to edit a cell")
		}
		name := serviceName()
		if name == "" {
			return fmt.Errorf("no service given; use --service or set an active service")
		}
		db, _, err := postgres.OpenService(name)
		if err != nil {
			return err
		}
		defer db.Close()

		opts.Service = name
		opts.Target = &tui.CellTarget{
			DB:       db,
			Table:    postgres.QualifiedName(editSchema, editTable),
			Key:      editKey,
			KeyValue: editID,
			Column:   editColumn,
			Label:    editTable + "." + editColumn,
		}
		if opts.Initial == "" {
			opts.Initial = currentCellValue(cmd.Context(), db, opts.Target)
		}
	}

	res, err := tui.RunEditor(opts)
	if err != nil {
		return fmt.Errorf("running editor: %w", err)
	}
	if !res.Committed {
		return nil
	}

	out := cmd.OutOrStdout()
	if res.Value == nil {
		fmt.Fprintln(out, spatial.NullDisplay)
	} else {
		fmt.Fprintln(out, *res.Value)
	}
	if opts.Target != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d row(s) updated\n", res.RowsAffected)
	}

	recordHistory(res)
	return nil
}

// currentCellValue reads the cell as WKT so the editor starts from it
func currentCellValue(ctx context.Context, db postgres.Queryer, target *tui.CellTarget) string {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := fmt.Sprintf("SELECT ST_AsText(%s) FROM %s WHERE %s = $1",
		pq.QuoteIdentifier(target.Column), target.Table, pq.QuoteIdentifier(target.Key))
	var wkt *string
	if err := db.QueryRowContext(ctx, query, target.KeyValue).Scan(&wkt); err != nil {
		log.Warn().Err(err).Str("table", target.Table).Msg("could not read current value")
		return ""
	}
	if wkt == nil {
		return ""
	}
	return *wkt
}

// recordHistory keeps committed values in the config, with a cached preview
func recordHistory(res tui.EditorResult) {
	if res.Value == nil {
		return
	}
	entry := config.HistoryEntry{
		Timestamp: time.Now(),
		Input:     *res.Value,
		Mode:      res.Mode.String(),
	}
	if g, err := render.ParseValue(*res.Value); err == nil {
		entry.WKT = g.String()
		r := render.NewRenderer(cfg.Settings.PreviewWidth, cfg.Settings.PreviewHeight)
		if b64, err := r.RenderBase64([]string{entry.WKT}); err == nil {
			if id, err := config.SavePreviewImage(b64); err == nil {
				entry.PreviewImageID = id
			}
		}
	}

	cfg.AddToHistory(entry)
	if err := cfg.Save(); err != nil {
		log.Warn().Err(err).Msg("could not save history")
	}
}
