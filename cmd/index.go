package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/jsphweid/ssedit/catalog"
	"github.com/jsphweid/ssedit/constants"
	"github.com/jsphweid/ssedit/file"
	"github.com/jsphweid/ssedit/util"
	"github.com/spf13/cobra"
)

var recentLimit int

func init() {
	recentCmd.Flags().IntVarP(&recentLimit, "limit", "n", 20, "entries to list")
	rootCmd.AddCommand(indexCmd, recentCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index [dir]",
	Short: "Records every level in a directory in the catalog",
	Long: `Records every .sspm and .ssrd file in dir, SSEDIT_LEVEL_DIR by default,
in the catalog at SSEDIT_CATALOG_PATH. Files that fail to load are reported
and skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := constants.GetLevelDir()
		if len(args) == 1 {
			dir = args[0]
		}
		return index(cmd.Context(), dir)
	},
}

func index(ctx context.Context, dir string) error {
	paths, err := util.GatherLevelPaths(dir, ".sspm", ".ssrd")
	if err != nil {
		return err
	}
	cat, err := catalog.Open(constants.GetCatalogPath())
	if err != nil {
		return err
	}
	defer cat.Close()

	fs := file.NewOSFileSystem()
	recorded := 0
	for _, path := range paths {
		l, err := file.Load(fs, path)
		if err != nil {
			fmt.Printf("skipping %s: %v\n", path, err)
			continue
		}
		if err := cat.Record(ctx, catalog.EntryFor(path, l, time.Now())); err != nil {
			return err
		}
		recorded++
	}
	logger().Printf("recorded %d of %d levels from %s\n", recorded, len(paths), dir)
	return nil
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Lists recently saved levels",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Open(constants.GetCatalogPath())
		if err != nil {
			return err
		}
		defer cat.Close()
		entries, err := cat.Recent(cmd.Context(), recentLimit)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%s\t%s\t%s - %s\t%d notes\t%s\n",
				e.SavedAt.Format(time.DateTime), e.Format, e.Author, e.Name, e.Notes, e.Path)
		}
		return nil
	},
}
