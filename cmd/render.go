package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/catascope/catascope/internal/overmap"
)

var (
	renderGame   string
	renderDepot  string
	renderZ      int
	renderFormat string
)

var renderCmd = &cobra.Command{
	Use:   "render [tile-file]",
	Short: "Render one overmap tile file as a symbolic grid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(renderGame, renderDepot)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read tile file: %w", err)
		}
		tile, err := overmap.ParseTile(data, logger)
		if err != nil {
			return err
		}
		if _, err := overmap.ResolveSymbols(tile, store, logger); err != nil {
			return err
		}

		grid, err := tile.Project(renderZ)
		if err != nil {
			return err
		}
		switch renderFormat {
		case "text":
			var b strings.Builder
			for _, row := range grid {
				for _, cell := range row {
					b.WriteString(cell.Glyph)
				}
				b.WriteByte('\n')
			}
			fmt.Print(b.String())
		case "json":
			out, err := oj.Marshal(grid)
			if err != nil {
				return fmt.Errorf("marshal grid: %w", err)
			}
			fmt.Println(string(out))
		default:
			return fmt.Errorf("unknown format %q (want text or json)", renderFormat)
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderGame, "game", "g", "", "game directory (or its data/json root)")
	renderCmd.Flags().StringVarP(&renderDepot, "depot", "d", "", "prebuilt definition depot (see `catascope build`)")
	renderCmd.Flags().IntVarP(&renderZ, "z-level", "z", 0, "z-level to render")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "text", "output format: text or json")
	rootCmd.AddCommand(renderCmd)
}
