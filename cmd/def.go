package cmd

import (
	"errors"
	"fmt"

	"github.com/ohler55/ojg/pretty"
	"github.com/spf13/cobra"

	"github.com/catascope/catascope/internal/gamedata"
)

var (
	defGame  string
	defDepot string
)

var defCmd = &cobra.Command{
	Use:   "def [category] [id]",
	Short: "Show one flattened definition",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(defGame, defDepot)
		if err != nil {
			return err
		}
		def, err := store.Lookup(args[0], args[1])
		if errors.Is(err, gamedata.ErrNotFound) {
			return fmt.Errorf("no %s definition with id %q", args[0], args[1])
		}
		if err != nil {
			return err
		}
		fmt.Println(pretty.JSON(map[string]any(def), 80.3))
		return nil
	},
}

func init() {
	defCmd.Flags().StringVarP(&defGame, "game", "g", "", "game directory (or its data/json root)")
	defCmd.Flags().StringVarP(&defDepot, "depot", "d", "", "prebuilt definition depot (see `catascope build`)")
	rootCmd.AddCommand(defCmd)
}
