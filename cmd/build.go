package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/catascope/catascope/internal/gamedata"
)

var buildCmd = &cobra.Command{
	Use:   "build [gamedir] [output.db]",
	Short: "Compile flattened terrain definitions into a sqlite depot",
	Long: `Build walks the game's content tree, resolves all copy-from
inheritance, and writes the flattened definitions into a sqlite depot.
Later renders can stream the depot back with --depot instead of
re-walking and re-resolving the content tree.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		gamedir := args[0]
		output := args[1]

		fsys := osfs.New(contentRoot(gamedir))
		store := gamedata.NewStore(fsys, logger)
		stats, err := store.Load(gamedata.ContentDirs...)
		if err != nil {
			return fmt.Errorf("load game content: %w", err)
		}
		store.Resolve()

		digest, err := gamedata.TreeDigest(fsys, gamedata.ContentDirs...)
		if err != nil {
			return fmt.Errorf("digest content tree: %w", err)
		}

		_ = os.Remove(output) // overwrite
		start := time.Now()
		if err := gamedata.BuildDepot(output, store, digest); err != nil {
			return err
		}
		fmt.Printf("Built %s: %d definitions from %d files in %v.\n",
			output, stats.Definitions, stats.Files, time.Since(start))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
