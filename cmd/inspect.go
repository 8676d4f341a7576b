package cmd

import (
	"fmt"

	"github.com/jsphweid/ssedit/editor"
	"github.com/spf13/cobra"
)

var inspectNotes bool

func init() {
	inspectCmd.Flags().BoolVarP(&inspectNotes, "notes", "n", false, "also list every placement")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <level>",
	Short: "Inspects a level",
	Long:  `Prints a level's metadata and, with --notes, every placement by time.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(args[0])
	},
}

func inspect(path string) error {
	s, err := editor.Open(path, options())
	if err != nil {
		return err
	}
	info := s.Info()
	fmt.Printf("format:     %s\n", info.Format)
	fmt.Printf("id:         %s\n", info.ID)
	fmt.Printf("name:       %s\n", info.Name)
	fmt.Printf("author:     %s\n", info.Author)
	fmt.Printf("difficulty: %s\n", info.Difficulty)
	fmt.Printf("notes:      %d (%d placements)\n", info.Notes, info.Placements)
	fmt.Printf("length:     %.3fs\n", info.Length)
	fmt.Printf("cover:      %v\n", info.HasCover)
	fmt.Printf("audio:      %v\n", info.HasAudio)
	fmt.Printf("sha256:     %s\n", s.Level.Fingerprint())
	if !inspectNotes {
		return nil
	}
	for time := range s.Level.Notes.Times() {
		for i, p := range s.Level.Notes.At(time) {
			fmt.Printf("%d\t%d\t%g\t%g\n", time, i, p.X, p.Y)
		}
	}
	return nil
}
