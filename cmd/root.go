package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/jsphweid/ssedit/config"
	"github.com/jsphweid/ssedit/editor"
	"github.com/jsphweid/ssedit/file"
	"github.com/spf13/cobra"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "ssedit",
	Short: "Rhythm game level editor",
	Long: `ssedit edits note-placement levels stored as .sspm or .ssrd files.
Every save is read back and compared before it counts as saved.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log what the editor is doing to stderr")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func logger() config.Logger {
	return config.NewDebugLogger(debug, os.Stderr)
}

func options() editor.Options {
	return editor.Options{FileSystem: file.NewOSFileSystem(), Logger: logger()}
}

// edit opens path, applies fn and saves the result in place.
func edit(path string, fn func(s *editor.Session) error) error {
	s, err := editor.Open(path, options())
	if err != nil {
		return err
	}
	if err := fn(s); err != nil {
		return err
	}
	if !s.Dirty() {
		logger().Printf("%s unchanged\n", path)
		return nil
	}
	return save(s.Save)
}

// save runs fn and raises the alarm on an integrity mismatch regardless of
// --debug.
func save(fn func() error) error {
	err := fn()
	if errors.Is(err, file.ErrIntegrityMismatch) {
		fmt.Fprintf(os.Stderr, "!!! %v\n", err)
	}
	return err
}
