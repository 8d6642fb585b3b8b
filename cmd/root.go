// Package cmd implements the catascope command line interface.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/catascope/catascope/internal/gamedata"
)

var (
	debug  bool
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "catascope",
	Short: "Catascope: render Cataclysm DDA overmap saves as symbolic grids",
	// Execute prints the error itself; without these cobra would print
	// it a second time, plus the usage text, on every failure.
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// contentRoot resolves a game directory argument to its content root: a
// path already pointing at a json directory is used as-is, otherwise
// the game's data/json subdirectory.
func contentRoot(gamedir string) string {
	if filepath.Base(gamedir) == "json" {
		return gamedir
	}
	return filepath.Join(gamedir, "data", "json")
}

// openStore builds the definition store either by streaming a prebuilt
// depot or by walking and resolving the game's content tree.
func openStore(game, depot string) (*gamedata.Store, error) {
	if depot != "" {
		store, meta, err := gamedata.LoadDepot(depot, logger)
		if err != nil {
			return nil, err
		}
		if game != "" {
			fsys := osfs.New(contentRoot(game))
			digest, err := gamedata.TreeDigest(fsys, gamedata.ContentDirs...)
			if err == nil && digest != meta.Digest {
				logger.Warn("depot is stale relative to game content, rebuild with `catascope build`",
					"depot", depot, "game", game)
			}
		}
		return store, nil
	}
	if game == "" {
		return nil, fmt.Errorf("either --game or --depot is required")
	}

	store := gamedata.NewStore(osfs.New(contentRoot(game)), logger)
	if _, err := store.Load(gamedata.ContentDirs...); err != nil {
		return nil, fmt.Errorf("load game content: %w", err)
	}
	store.Resolve()
	return store, nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
