package cmd

import (
	"encoding/binary"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-pg-geom/internal/geom"
)

var (
	encodeSRID      int
	encodeBigEndian bool
)

var encodeCmd = &cobra.Command{
	Use:   "encode <wkt>",
	Short: "Encode WKT as WKB hex",
	Long: `Encode WKT as 0x-prefixed WKB hex, little-endian unless --big-endian.
With --srid the 4-byte little-endian SRID prefix is written first.`,
	Example: `  kartoza-pg-geom encode 'POINT(1 2)'
  kartoza-pg-geom encode --srid 4326 'LINESTRING(0 0, 1 1)'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := geom.ParseWKT(args[0])
		if err != nil {
			return err
		}

		var order binary.ByteOrder = binary.LittleEndian
		if encodeBigEndian {
			order = binary.BigEndian
		}

		var srid *uint32
		if cmd.Flags().Changed("srid") {
			if encodeSRID < 0 {
				return fmt.Errorf("srid must not be negative: %d", encodeSRID)
			}
			s := uint32(encodeSRID)
			srid = &s
		}

		out, err := geom.EncodeToHex(g, srid, order)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	encodeCmd.Flags().IntVar(&encodeSRID, "srid", 0, "Prefix the WKB with this SRID")
	encodeCmd.Flags().BoolVar(&encodeBigEndian, "big-endian", false, "Write big-endian WKB")
}
