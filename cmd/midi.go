package cmd

import (
	"fmt"
	"os"

	"github.com/jsphweid/ssedit/editor"
	"github.com/jsphweid/ssedit/midi"
	"github.com/spf13/cobra"
)

var (
	replaceNotes bool
	exportBPM    float64
)

func init() {
	importMidiCmd.Flags().BoolVar(&replaceNotes, "replace", false, "drop existing notes first")
	exportMidiCmd.Flags().Float64Var(&exportBPM, "bpm", 120, "tempo written to the file")
	rootCmd.AddCommand(importMidiCmd, exportMidiCmd)
}

var importMidiCmd = &cobra.Command{
	Use:   "import-midi <level> <midi file>",
	Short: "Adds the note-ons of a midi file as notes",
	Long: `Adds every note-on of a standard midi file as a note. The key picks a
cell of a 3x3 grid on the play field.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := midi.ReadFile(args[1])
		if err != nil {
			return err
		}
		logger().Printf("%s: %d notes at %g bpm, %d/%d\n", args[1], res.Notes.Count(), res.BPM, res.Signature.Num, res.Signature.Denom)
		return edit(args[0], func(s *editor.Session) error {
			if replaceNotes {
				s.Level.Notes = res.Notes
				return nil
			}
			for time := range res.Notes.Times() {
				for _, p := range res.Notes.At(time) {
					s.Level.Notes.Insert(time, p)
				}
			}
			return nil
		})
	},
}

var exportMidiCmd = &cobra.Command{
	Use:   "export-midi <level> <midi file>",
	Short: "Writes the notes as a drum track",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := editor.Open(args[0], options())
		if err != nil {
			return err
		}
		s.Prefs.BPM = exportBPM
		g := s.Prefs.Normalize().Grid()

		f, err := os.Create(args[1])
		if err != nil {
			return err
		}
		defer f.Close()
		if err := midi.Export(f, s.Level.Notes, g.BPM, g.Signature); err != nil {
			return err
		}
		fmt.Println(args[1])
		return nil
	},
}
