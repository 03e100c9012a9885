package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-pg-geom/internal/geom"
	"github.com/kartoza/kartoza-pg-geom/internal/spatial"
)

var (
	toggleToSQL bool
	toggleSRID  int
)

// errInvalid is returned so validate exits non-zero
var errInvalid = errors.New("not a valid geometry")

var toggleCmd = &cobra.Command{
	Use:   "toggle <text>",
	Short: "Convert between bare WKT and an ST_GeomFromText call",
	Long: `Convert a geometry field value. With --sql bare WKT is wrapped in
ST_GeomFromText('<wkt>'[, srid]); without it the WKT literal is taken back
out of a constructor call. Text that cannot be converted is printed as is.`,
	Example: `  kartoza-pg-geom toggle --sql --srid 4326 'POINT(30 40)'
  kartoza-pg-geom toggle "ST_GeomFromText('POINT(30 40)', 4326)"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		text := args[0]
		var result string
		switch {
		case toggleToSQL && toggleSRID != 0:
			srid := toggleSRID
			result = spatial.WrapWKTInFunction(text, &srid)
		default:
			result = spatial.ToggleGeometryMode(text, toggleToSQL)
		}
		fmt.Fprintln(cmd.OutOrStdout(), result)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <text>",
	Short: "Check a geometry field value",
	Long: `Check whether text is well formed WKT or a geometry constructor call.
Exits non-zero when it is neither.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := args[0]
		out := cmd.OutOrStdout()

		mode := spatial.DetectMode(text)
		wkt := text
		if mode == spatial.ModeSQLFunction {
			extracted, ok := spatial.ExtractWKTFromSQL(text)
			if !ok {
				fmt.Fprintf(out, "valid (%s, no WKT literal)\n", mode)
				return nil
			}
			wkt = extracted
		}

		if !spatial.IsValidWKT(wkt) {
			fmt.Fprintf(out, "invalid (%s)\n", mode)
			return errInvalid
		}

		if g, err := geom.ParseWKT(wkt); err == nil {
			fmt.Fprintf(out, "valid (%s): %s\n", mode, g)
		} else {
			// well formed, but not one of the seven typed forms
			fmt.Fprintf(out, "valid (%s): %v\n", mode, err)
		}
		return nil
	},
}

func init() {
	toggleCmd.Flags().BoolVar(&toggleToSQL, "sql", false, "Wrap WKT in ST_GeomFromText instead of unwrapping")
	toggleCmd.Flags().IntVar(&toggleSRID, "srid", 0, "SRID for the wrapped call")
}
