package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jsphweid/ssedit/editor"
	"github.com/jsphweid/ssedit/model"
	"github.com/jsphweid/ssedit/spline"
	"github.com/jsphweid/ssedit/timeline"
	"github.com/spf13/cobra"
)

var (
	newFormat  string
	newName    string
	newAuthor  string
	metaName   string
	metaAuthor string
	metaID     string
	metaDiff   string
	convertOut string
	splineN    int
	snapX      int
	snapY      int
)

func init() {
	newCmd.Flags().StringVarP(&newFormat, "format", "f", "sspm", "sspm or ssrd")
	newCmd.Flags().StringVar(&newName, "name", "", "level name")
	newCmd.Flags().StringVar(&newAuthor, "author", "", "level author")

	metaCmd.Flags().StringVar(&metaName, "name", "", "new name")
	metaCmd.Flags().StringVar(&metaAuthor, "author", "", "new author")
	metaCmd.Flags().StringVar(&metaID, "id", "", "explicit id")
	metaCmd.Flags().StringVar(&metaDiff, "difficulty", "", "difficulty name or number")

	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "", "output path, defaults to the input with the new extension")

	splineCmd.Flags().IntVarP(&splineN, "count", "c", 16, "notes to place")

	snapCmd.Flags().IntVar(&snapX, "x", 3, "grid points on the x axis")
	snapCmd.Flags().IntVar(&snapY, "y", 3, "grid points on the y axis")

	rootCmd.AddCommand(newCmd, metaCmd, convertCmd, offsetCmd, pruneCmd, splineCmd, snapCmd)
}

var newCmd = &cobra.Command{
	Use:   "new <path>",
	Short: "Creates an empty level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, ok := model.ParseFormat(newFormat)
		if !ok {
			return fmt.Errorf("unknown format %q", newFormat)
		}
		s := editor.New(format, options())
		s.SetMetadata(newName, newAuthor)
		if err := save(func() error { return s.SaveAs(args[0]) }); err != nil {
			return err
		}
		fmt.Println(s.Path)
		return nil
	},
}

var metaCmd = &cobra.Command{
	Use:   "meta <level>",
	Short: "Changes name, author, id or difficulty",
	Long: `Changes level metadata. The id is derived again from author and name
when both change, unless --id is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return edit(args[0], func(s *editor.Session) error {
			name, author := s.Level.Name, s.Level.Author
			if cmd.Flags().Changed("name") {
				name = metaName
			}
			if cmd.Flags().Changed("author") {
				author = metaAuthor
			}
			s.SetMetadata(name, author)
			if cmd.Flags().Changed("id") {
				s.SetID(metaID)
			}
			if cmd.Flags().Changed("difficulty") {
				d, err := model.ParseDifficulty(metaDiff)
				if err != nil {
					return err
				}
				return s.SetDifficulty(d)
			}
			return nil
		})
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert <level> <sspm|ssrd>",
	Short: "Converts a level to the other format",
	Long: `Converts a level and writes it next to the original. Converting to raw
data drops the difficulty.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, ok := model.ParseFormat(args[1])
		if !ok {
			return fmt.Errorf("unknown format %q", args[1])
		}
		s, err := editor.Open(args[0], options())
		if err != nil {
			return err
		}
		s.Convert(format)
		out := convertOut
		if out == "" {
			out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + format.Extension()
		}
		if err := save(func() error { return s.SaveAs(out) }); err != nil {
			return err
		}
		fmt.Println(s.Path)
		return nil
	},
}

var offsetCmd = &cobra.Command{
	Use:   "offset <level> <ms>",
	Short: "Moves every note earlier by ms",
	Long:  `Moves every note earlier by ms, or later for a negative value.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		delta, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}
		return edit(args[0], func(s *editor.Session) error {
			return s.OffsetNotes(delta)
		})
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune <level> <start> <end>",
	Short: "Deletes every note between start and end inclusive",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}
		end, err := strconv.Atoi(args[2])
		if err != nil {
			return err
		}
		return edit(args[0], func(s *editor.Session) error {
			n := s.DeleteRange(start, end)
			logger().Printf("deleted %d timestamps\n", n)
			return nil
		})
	},
}

var splineCmd = &cobra.Command{
	Use:     "spline <level> <time:x,y>...",
	Short:   "Places notes along a curve through control nodes",
	Example: `  ssedit spline song.sspm 0:0,0 500:2,1 1000:1,2 --count 24`,
	Args:    cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		nodes := spline.Nodes{}
		for _, arg := range args[1:] {
			time, pos, err := parseNode(arg)
			if err != nil {
				return err
			}
			nodes.Put(time, pos)
		}
		return edit(args[0], func(s *editor.Session) error {
			samples, err := s.PlaceSpline(nodes, splineN)
			if err != nil {
				return err
			}
			logger().Printf("placed %d notes from %d to %d\n", len(samples), samples[0].Time, samples[len(samples)-1].Time)
			return nil
		})
	},
}

var snapCmd = &cobra.Command{
	Use:   "snap <level>",
	Short: "Snaps every placement onto the note grid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return edit(args[0], func(s *editor.Session) error {
			s.Prefs.NoteSnapping = [2]int{snapX, snapY}
			s.Prefs = s.Prefs.Normalize()
			snapped := timeline.New()
			for time := range s.Level.Notes.Times() {
				for _, p := range s.Level.Notes.At(time) {
					snapped.Insert(time, s.SnapPosition(p))
				}
			}
			s.Level.Notes = snapped
			return nil
		})
	},
}

// parseNode reads "time:x,y".
func parseNode(s string) (int, model.Position, error) {
	time, xy, ok := strings.Cut(s, ":")
	x, y, ok2 := strings.Cut(xy, ",")
	if !ok || !ok2 {
		return 0, model.Position{}, fmt.Errorf("node %q is not time:x,y", s)
	}
	t, err := strconv.Atoi(time)
	if err != nil {
		return 0, model.Position{}, err
	}
	px, err := strconv.ParseFloat(x, 64)
	if err != nil {
		return 0, model.Position{}, err
	}
	py, err := strconv.ParseFloat(y, 64)
	if err != nil {
		return 0, model.Position{}, err
	}
	return t, model.Position{X: px, Y: py}, nil
}
