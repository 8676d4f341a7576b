package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/jsphweid/ssedit/editor"
	"github.com/jsphweid/ssedit/fetch"
	"github.com/jsphweid/ssedit/media"
	"github.com/spf13/cobra"
)

var removeMedia bool

func init() {
	coverCmd.Flags().BoolVar(&removeMedia, "remove", false, "drop the cover instead")
	audioCmd.Flags().BoolVar(&removeMedia, "remove", false, "drop the audio instead")
	rootCmd.AddCommand(coverCmd, audioCmd)
}

var coverCmd = &cobra.Command{
	Use:   "cover <level> [image file or url]",
	Short: "Attaches a png, jpeg or gif cover",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return edit(args[0], func(s *editor.Session) error {
			if removeMedia || len(args) == 1 {
				s.SetCover(nil)
				return nil
			}
			data, err := readSource(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			c, err := media.CoverFromImage(data)
			if err != nil {
				return err
			}
			s.SetCover(c)
			return nil
		})
	},
}

var audioCmd = &cobra.Command{
	Use:   "audio <level> [wav file or url]",
	Short: "Attaches the song as a wav file",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return edit(args[0], func(s *editor.Session) error {
			if removeMedia || len(args) == 1 {
				s.SetAudio(nil)
				return nil
			}
			data, err := readSource(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			a, err := media.AudioFromWAV(data)
			if err != nil {
				return err
			}
			logger().Printf("audio is %dms long\n", a.DurationMs())
			s.SetAudio(a)
			return nil
		})
	},
}

func readSource(ctx context.Context, src string) ([]byte, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		logger().Printf("downloading %s\n", src)
		return fetch.Download(ctx, src)
	}
	return os.ReadFile(src)
}
