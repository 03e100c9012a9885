package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-pg-geom/internal/spatial"
)

var classifyCmd = &cobra.Command{
	Use:     "classify <type>...",
	Short:   "Tell whether SQL column types are geometric",
	Example: `  kartoza-pg-geom classify 'geometry(Point,4326)' varchar geography`,
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, t := range args {
			verdict := "not geometric"
			if spatial.IsGeometricType(t) {
				verdict = "geometric"
			}
			fmt.Fprintf(w, "%s\t%s\n", t, verdict)
		}
		w.Flush()
	},
}
