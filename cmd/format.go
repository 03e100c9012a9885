package cmd

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-pg-geom/internal/logger"
	"github.com/kartoza/kartoza-pg-geom/internal/spatial"
)

var formatNull bool

var formatCmd = &cobra.Command{
	Use:   "format [value...]",
	Short: "Show raw column values as WKT",
	Long: `Format raw spatial column values for display. WKB hex (0x-prefixed,
standard or with a 4-byte little-endian SRID prefix) is decoded to WKT; WKT
and anything else is printed unchanged. Values are read one per line from
stdin when none are given. PostGIS prints geometry columns as EWKB, so select
ST_AsBinary(geom) in hex rather than the column itself.`,
	Example: `  kartoza-pg-geom format 0x0101000000000000000000F03F0000000000000040
  psql -At -c "SELECT '0x' || encode(ST_AsBinary(geom), 'hex') FROM roads" | kartoza-pg-geom format`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := spatial.NewValueFormatter(logger.Component(log, "formatter"))
		out := cmd.OutOrStdout()

		if formatNull {
			fmt.Fprintln(out, f.Format(nil))
			return nil
		}

		if len(args) > 0 {
			for _, v := range args {
				fmt.Fprintln(out, f.FormatString(v))
			}
			return nil
		}

		scanner := bufio.NewScanner(cmd.InOrStdin())
		scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)
		for scanner.Scan() {
			fmt.Fprintln(out, f.FormatString(scanner.Text()))
		}
		return scanner.Err()
	},
}

func init() {
	formatCmd.Flags().BoolVar(&formatNull, "null", false, "Format an SQL NULL")
}
