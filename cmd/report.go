package cmd

import (
	"fmt"

	"github.com/jsphweid/ssedit/constants"
	"github.com/jsphweid/ssedit/file"
	"github.com/jsphweid/ssedit/level"
	"github.com/jsphweid/ssedit/model"
	"github.com/jsphweid/ssedit/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report [dir]",
	Short: "Summarises the levels in a directory",
	Long:  `Reports how many levels of each format a directory holds and how their bytes split between notes and media.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := constants.GetLevelDir()
		if len(args) == 1 {
			dir = args[0]
		}
		return report(dir)
	},
}

type levelsReport struct {
	numFiles   map[model.Format]int
	failed     int
	totalBytes int64
	mediaBytes int64
	placements []int
	lengthsMs  []int
}

func analyzeLevels(dir string) (levelsReport, error) {
	report := levelsReport{numFiles: make(map[model.Format]int)}
	paths, err := util.GatherLevelPaths(dir, ".sspm", ".ssrd")
	if err != nil {
		return report, err
	}
	fs := file.NewOSFileSystem()
	for _, path := range paths {
		buf, err := fs.ReadFile(path)
		if err != nil {
			report.failed++
			continue
		}
		l, err := file.Load(fs, path)
		if err != nil {
			logger().Printf("%s: %v\n", path, err)
			report.failed++
			continue
		}
		report.numFiles[l.Format]++
		report.totalBytes += int64(len(buf))
		report.mediaBytes += mediaBytes(l)
		report.placements = append(report.placements, l.Notes.Count())
		report.lengthsMs = append(report.lengthsMs, l.Length())
	}
	return report, nil
}

func mediaBytes(l *level.Level) int64 {
	var n int64
	if l.Cover != nil {
		n += int64(len(l.Cover.Data))
	}
	if l.Audio != nil {
		n += int64(len(l.Audio.Data))
	}
	return n
}

func report(dir string) error {
	r, err := analyzeLevels(dir)
	if err != nil {
		return err
	}
	for _, f := range model.Formats() {
		fmt.Printf("%s files: %v\n", f, r.numFiles[f])
	}
	fmt.Printf("unreadable files: %v\n", r.failed)

	placements := util.Sum(r.placements)
	fmt.Printf("placements: %v\n", placements)
	if n := len(r.placements); n > 0 {
		fmt.Printf("placements per level: %.1f\n", float64(placements)/float64(n))
		fmt.Printf("average length: %.1fs\n", float64(util.Sum(r.lengthsMs))/float64(n)/1000)
	}
	fmt.Printf("total bytes: %v\n", r.totalBytes)
	if r.totalBytes > 0 {
		fmt.Printf("share of bytes that is media: %.3f\n", float64(r.mediaBytes)/float64(r.totalBytes))
	}
	return nil
}
